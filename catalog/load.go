package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/sonido-nota/formula"
	"github.com/RyanBlaney/sonido-nota/logging"
)

//go:embed data/formulas.yaml
var embeddedFormulas []byte

type scaleDTO struct {
	Name           string   `yaml:"name"`
	AlternateNames []string `yaml:"alternateNames"`
	Groups         []string `yaml:"groups"`
	Description    string   `yaml:"description"`
	Formula        []int    `yaml:"formula"`
}

type chordDTO struct {
	Name           string   `yaml:"name"`
	AlternateNames []string `yaml:"alternateNames"`
	Symbols        []string `yaml:"symbols"`
	Group          string   `yaml:"group"`
	Description    string   `yaml:"description"`
	Formula        []int    `yaml:"formula"`
	Intervals      []string `yaml:"intervals"`
}

type fileDTO struct {
	Scales []scaleDTO `yaml:"scales"`
	Chords []chordDTO `yaml:"chords"`
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// Default returns the catalog built from the embedded resource. It is built
// once on first use.
func Default() *Catalog {
	defaultCatalogOnce.Do(func() {
		c, err := Parse(embeddedFormulas, nil)
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded formulas: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Load reads a catalog from a YAML file. A nil logger uses the global logger.
func Load(path string, logger logging.Logger) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	c, err := Parse(data, logger)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse builds a catalog from YAML. Every formula is validated; a name used
// twice within scales or within chords is an error wrapping ErrDuplicate.
// A chord symbol used twice keeps its first owner.
func Parse(data []byte, logger logging.Logger) (*Catalog, error) {
	if logger == nil {
		logger = logging.WithFields(logging.Fields{"component": "catalog"})
	}

	var file fileDTO
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := newCatalog(logger)
	for i, dto := range file.Scales {
		if dto.Name == "" {
			return nil, fmt.Errorf("scale %d has no name: %w", i, formula.ErrInvalidFormula)
		}
		f := formula.Formula(dto.Formula)
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("scale %q: %w", dto.Name, err)
		}
		if err := c.addScale(newScale(dto.Name, dto.AlternateNames, dto.Groups, dto.Description, f)); err != nil {
			return nil, err
		}
	}
	for i, dto := range file.Chords {
		if dto.Name == "" {
			return nil, fmt.Errorf("chord %d has no name: %w", i, formula.ErrInvalidFormula)
		}
		f := formula.Formula(dto.Formula)
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("chord %q: %w", dto.Name, err)
		}
		if len(dto.Intervals) > 0 && len(dto.Intervals) != len(f) {
			return nil, fmt.Errorf("chord %q has %d intervals for %d steps: %w",
				dto.Name, len(dto.Intervals), len(f), formula.ErrInvalidFormula)
		}
		ch, err := newChord(dto.Name, dto.AlternateNames, dto.Symbols, dto.Group, dto.Description, f, dto.Intervals)
		if err != nil {
			return nil, fmt.Errorf("chord %q: %w", dto.Name, err)
		}
		if err := c.addChord(ch); err != nil {
			return nil, err
		}
	}

	logger.Debug("Catalog loaded", logging.Fields{
		"scales": len(c.scales),
		"chords": len(c.chords),
	})
	return c, nil
}
