package course

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Seed returns a fresh copy of the built-in catalog.
func Seed() []Course {
	return []Course{
		{
			ID:          "1",
			Title:       "Introduction to JavaScript",
			Description: "Learn the basics of JavaScript programming language.",
			Instructor:  "John Doe",
			Price:       2499,
			Image:       "https://images.unsplash.com/photo-1579468118864-1b9ea3c0db4a?w=500&auto=format&fit=crop",
			Category:    "Programming",
			Duration:    "8 weeks",
		},
		{
			ID:          "2",
			Title:       "React for Beginners",
			Description: "Get started with React library and build your first web app.",
			Instructor:  "Jane Smith",
			Price:       3999,
			Image:       "https://images.unsplash.com/photo-1633356122544-f134324a6cee?w=500&auto=format&fit=crop",
			Category:    "Web Development",
			Duration:    "10 weeks",
		},
		{
			ID:          "3",
			Title:       "Advanced Python Programming",
			Description: "Take your Python skills to the next level with advanced concepts.",
			Instructor:  "David Wilson",
			Price:       2999,
			Image:       "https://images.unsplash.com/photo-1526379095098-d400fd0bf935?w=500&auto=format&fit=crop",
			Category:    "Programming",
			Duration:    "12 weeks",
		},
		{
			ID:          "4",
			Title:       "Data Science Fundamentals",
			Description: "Learn the basics of data science and analytics.",
			Instructor:  "Sarah Johnson",
			Price:       4999,
			Image:       "https://images.unsplash.com/photo-1551288049-bebda4e38f71?w=500&auto=format&fit=crop",
			Category:    "Data Science",
			Duration:    "14 weeks",
		},
		{
			ID:          "5",
			Title:       "UI/UX Design Principles",
			Description: "Master the art of designing beautiful and functional user interfaces.",
			Instructor:  "Michael Brown",
			Price:       3499,
			Image:       "https://images.unsplash.com/photo-1561070791-2526d30994b5?w=500&auto=format&fit=crop",
			Category:    "Design",
			Duration:    "8 weeks",
		},
		{
			ID:          "6",
			Title:       "Cloud Computing with AWS",
			Description: "Learn to deploy and manage applications on Amazon Web Services.",
			Instructor:  "Robert Martinez",
			Price:       4499,
			Image:       "https://images.unsplash.com/photo-1544197150-b99a580bb7a8?w=500&auto=format&fit=crop",
			Category:    "Cloud Computing",
			Duration:    "10 weeks",
		},
	}
}

type seedFile struct {
	Courses []Course `yaml:"courses"`
}

// LoadSeedFile reads a YAML catalog of the form `courses: [...]`.
// An empty path yields the built-in seed.
func LoadSeedFile(path string) ([]Course, error) {
	if path == "" {
		return Seed(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	return ParseSeed(raw)
}

func ParseSeed(raw []byte) ([]Course, error) {
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	ids := make(map[string]struct{}, len(f.Courses))
	for i, c := range f.Courses {
		if c.ID == "" {
			return nil, fmt.Errorf("seed course %d: missing id", i)
		}
		if _, dup := ids[c.ID]; dup {
			return nil, fmt.Errorf("seed course %d: duplicate id %q", i, c.ID)
		}
		if c.Price < 0 {
			return nil, fmt.Errorf("seed course %q: negative price", c.ID)
		}
		ids[c.ID] = struct{}{}
	}

	return f.Courses, nil
}
