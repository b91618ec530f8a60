package deck

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/youruser/lordeck/internal/cards"
)

// File is the YAML deck file layout. When Code is set it wins over Cards.
type File struct {
	Name  string               `yaml:"name,omitempty"`
	Code  string               `yaml:"code,omitempty"`
	Cards []cards.CodeAndCount `yaml:"cards,omitempty"`
}

// ParseYAML reads a YAML deck file.
func ParseYAML(data []byte) (*Deck, string, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, "", fmt.Errorf("parse deck yaml: %w", err)
	}
	var (
		d   *Deck
		err error
	)
	if f.Code != "" {
		d, err = FromCode(f.Code)
	} else {
		d, err = FromCardCodesAndCounts(f.Cards)
	}
	if err != nil {
		return nil, "", err
	}
	return d, f.Name, nil
}

// WriteYAML writes d as a YAML deck file including its code.
func WriteYAML(w io.Writer, name string, d *Deck) error {
	code, err := d.Code()
	if err != nil {
		return err
	}
	f := File{Name: name, Code: code, Cards: d.AllCodeAndCount()}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("write deck yaml: %w", err)
	}
	return enc.Close()
}

// ReadFile loads a deck file. ".yaml" and ".yml" files are parsed as YAML,
// anything else as text.
func ReadFile(path string) (*Deck, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read deck file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseText(bytes.NewReader(data))
	}
}
