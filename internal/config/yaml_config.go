package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"linkhub/internal/models"
)

// YAMLConfig represents the structure of the config.yaml file.
// Seed data that's easier to manage in YAML than env vars.
type YAMLConfig struct {
	Categories []CategoryConfig `yaml:"categories"`
	DemoUser   DemoUserConfig   `yaml:"demo_user"`
}

// CategoryConfig defines a category in the YAML config.
type CategoryConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// DemoUserConfig overrides the demo account seeded when SEED_DEMO_USER is set.
type DemoUserConfig struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	FullName string `yaml:"full_name"`
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// Returns nil without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	path := getEnv("CONFIG_FILE", "config.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SeedCategories returns the categories to seed: the configured list when one is
// given, otherwise the built-in defaults. Entries without a name are skipped.
func (c *YAMLConfig) SeedCategories() []models.Category {
	if c == nil || len(c.Categories) == 0 {
		return models.DefaultCategories
	}
	categories := make([]models.Category, 0, len(c.Categories))
	for _, cc := range c.Categories {
		if cc.Name == "" {
			continue
		}
		categories = append(categories, models.Category{Name: cc.Name, Description: cc.Description})
	}
	return categories
}

// SeedDemoUser returns the demo account credentials, filling unset fields with
// the built-in demo account.
func (c *YAMLConfig) SeedDemoUser() DemoUserConfig {
	demo := DemoUserConfig{
		Username: "demo",
		Email:    "demo@example.com",
		Password: "password123",
		FullName: "Demo User",
	}
	if c == nil {
		return demo
	}
	if c.DemoUser.Username != "" {
		demo.Username = c.DemoUser.Username
	}
	if c.DemoUser.Email != "" {
		demo.Email = c.DemoUser.Email
	}
	if c.DemoUser.Password != "" {
		demo.Password = c.DemoUser.Password
	}
	if c.DemoUser.FullName != "" {
		demo.FullName = c.DemoUser.FullName
	}
	return demo
}
