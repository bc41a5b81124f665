// Package seed loads the category set a tracker starts with.
package seed

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"chitieu/internal/core"
	"chitieu/internal/log"
)

// File is the YAML layout of a seed file.
type File struct {
	Categories []CategoryEntry `yaml:"categories"`
}

type CategoryEntry struct {
	ID          string      `yaml:"id,omitempty"`
	Name        string      `yaml:"name"`
	Color       string      `yaml:"color,omitempty"`
	Group       string      `yaml:"group"`
	Description string      `yaml:"description,omitempty"`
	Baseline    int64       `yaml:"baseline,omitempty"`
	Items       []ItemEntry `yaml:"items,omitempty"`
}

type ItemEntry struct {
	ID     string `yaml:"id,omitempty"`
	Title  string `yaml:"title"`
	Amount int64  `yaml:"amount"`
	Date   string `yaml:"date"`
}

// Warning describes a seed entry that was kept in degraded form.
type Warning struct {
	Category string
	Item     string
	Reason   string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s/%s: %s", w.Category, w.Item, w.Reason)
}

// Defaults returns the built-in starting categories, all without items.
func Defaults() []core.Category {
	return []core.Category{
		{ID: "1", Name: "Ăn sáng", Color: "#22c55e", Group: core.GroupFood},
		{ID: "2", Name: "Ăn trưa", Color: "#f97316", Group: core.GroupFood},
		{ID: "3", Name: "Quần áo", Color: "#ec4899", Group: core.GroupShopping},
		{ID: "4", Name: "Điện nước", Color: "#3b82f6", Group: core.GroupLiving},
		{ID: "5", Name: "Xem phim", Color: "#a855f7", Group: core.GroupEntertainment},
	}
}

// Loader reads seed files.
type Loader struct {
	logger *log.Logger
}

func NewLoader(logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Discard()
	}
	return &Loader{logger: logger.WithComponent(log.ComponentSeed)}
}

// Load reads path and converts it to categories. An empty path or a missing
// file yields Defaults. Items whose date does not parse are kept with the
// zero date and reported in the returned warnings.
func (l *Loader) Load(path string) ([]core.Category, []Warning, error) {
	if path == "" {
		l.logger.Info("No seed file configured, using default categories")
		return Defaults(), nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("Seed file not found, using default categories", "path", path)
			return Defaults(), nil, nil
		}
		return nil, nil, fmt.Errorf("read seed file: %w", err)
	}

	cats, warnings, err := Parse(data)
	if err != nil {
		return nil, nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}

	for _, w := range warnings {
		l.logger.Warn("Seed item kept with invalid date",
			log.FieldCategoryName, w.Category,
			log.FieldItemTitle, w.Item,
			"reason", w.Reason)
	}
	l.logger.Info("Seed loaded", "path", path, "categories", len(cats), "warnings", len(warnings))
	return cats, warnings, nil
}

// Parse decodes a seed document. Category fields are validated the same way
// store mutations validate them.
func Parse(data []byte) ([]core.Category, []Warning, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, err
	}

	cats := make([]core.Category, 0, len(f.Categories))
	var warnings []Warning
	for i, e := range f.Categories {
		group, err := core.ParseGroup(e.Group)
		if err != nil || group == core.GroupAll {
			return nil, nil, fmt.Errorf("category %d (%q): %w", i, e.Name, core.ErrInvalidGroup)
		}
		in := core.CategoryInput{
			Name:           e.Name,
			Color:          e.Color,
			Group:          group,
			Description:    e.Description,
			BaselineAmount: e.Baseline,
		}
		if err := in.Validate(); err != nil {
			return nil, nil, fmt.Errorf("category %d (%q): %w", i, e.Name, err)
		}

		color := e.Color
		if color == "" {
			color = core.DefaultColor
		}
		c := core.Category{
			ID:             e.ID,
			Name:           e.Name,
			Color:          color,
			Group:          group,
			Description:    e.Description,
			BaselineAmount: e.Baseline,
			Items:          make([]core.ExpenseItem, 0, len(e.Items)),
		}
		for j, it := range e.Items {
			if strings.TrimSpace(it.Title) == "" {
				return nil, nil, fmt.Errorf("category %q item %d: %w", e.Name, j, core.ErrEmptyTitle)
			}
			if it.Amount < 0 {
				return nil, nil, fmt.Errorf("category %q item %d: %w", e.Name, j, core.ErrNegativeAmount)
			}
			date, err := core.ParseDate(it.Date)
			if err != nil {
				warnings = append(warnings, Warning{Category: e.Name, Item: it.Title, Reason: err.Error()})
			}
			c.Items = append(c.Items, core.ExpenseItem{
				ID:     it.ID,
				Title:  it.Title,
				Amount: it.Amount,
				Date:   date,
			})
		}
		cats = append(cats, c)
	}
	return cats, warnings, nil
}
