// Package categories is the implementation of the category catalog.
// The catalog defines which category tokens are recognized by the publishing
// workflow, how each category is titled on the index page, and optional
// per-category retention overrides.
package categories

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ubuntu/decorate"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// ErrEmptyCatalog is returned when a catalog defines no categories.
	ErrEmptyCatalog = errors.New("category catalog is empty")

	// ErrInvalidToken is returned when a category token can not appear in a report file name.
	ErrInvalidToken = errors.New("invalid category token")

	// ErrDuplicateToken is returned when a catalog defines the same token twice.
	ErrDuplicateToken = errors.New("duplicate category token")
)

// Category is one recognized report category.
type Category struct {
	Token string `toml:"token"`
	Title string `toml:"title,omitempty"`

	// MaxReports overrides the global retention count for this category.
	// Zero means no override.
	MaxReports uint `toml:"max_reports,omitempty"`
}

// Catalog is an ordered set of recognized categories.
// The order is the order sections appear on the index page.
type Catalog struct {
	categories []Category
	index      map[string]int
}

// catalogFile is the TOML representation of a catalog.
type catalogFile struct {
	Categories []Category `toml:"categories"`
}

var titleCaser = cases.Title(language.English)

// New builds a catalog from plain category tokens, titling each category
// from its token.
func New(tokens []string) (Catalog, error) {
	categories := make([]Category, 0, len(tokens))
	for _, token := range tokens {
		categories = append(categories, Category{Token: token})
	}
	return build(categories)
}

// Load reads a catalog from a TOML file.
func Load(path string) (c Catalog, err error) {
	defer decorate.OnError(&err, "could not load category catalog from %s:", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, err
	}

	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return Catalog{}, err
	}

	return build(file.Categories)
}

func build(categories []Category) (Catalog, error) {
	if len(categories) == 0 {
		return Catalog{}, ErrEmptyCatalog
	}

	index := make(map[string]int, len(categories))
	for i, category := range categories {
		if err := validateToken(category.Token); err != nil {
			return Catalog{}, err
		}
		if _, ok := index[category.Token]; ok {
			return Catalog{}, fmt.Errorf("%w: %q", ErrDuplicateToken, category.Token)
		}
		if category.Title == "" {
			categories[i].Title = titleCaser.String(category.Token)
		}
		index[category.Token] = i
	}

	return Catalog{categories: categories, index: index}, nil
}

// validateToken refuses tokens which would be ambiguous inside a report file
// name, where the token is delimited by underscores and a path never appears.
func validateToken(token string) error {
	if token == "" {
		return fmt.Errorf("%w: empty token", ErrInvalidToken)
	}
	if strings.ContainsAny(token, `_/\.`) {
		return fmt.Errorf("%w: %q", ErrInvalidToken, token)
	}
	return nil
}

// Recognized reports whether token belongs to the catalog.
func (c Catalog) Recognized(token string) bool {
	_, ok := c.index[token]
	return ok
}

// Get returns the category for a token.
func (c Catalog) Get(token string) (Category, bool) {
	i, ok := c.index[token]
	if !ok {
		return Category{}, false
	}
	return c.categories[i], true
}

// All returns the categories in catalog order.
func (c Catalog) All() []Category {
	return c.categories
}

// Tokens returns the category tokens in catalog order.
func (c Catalog) Tokens() []string {
	tokens := make([]string, 0, len(c.categories))
	for _, category := range c.categories {
		tokens = append(tokens, category.Token)
	}
	return tokens
}
