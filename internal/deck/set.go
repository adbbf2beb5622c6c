package deck

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/arcanaland/concentration/internal/card"
)

// BuiltinName is the name reported for the embedded card set
const BuiltinName = "builtin"

//go:embed builtin.json
var builtinCards []byte

var (
	// ErrEmptySet is returned when a card set holds no definitions
	ErrEmptySet = errors.New("card set has no cards")
	// ErrCardNotFound is returned by Set.Card for an unknown name
	ErrCardNotFound = errors.New("card not found")
)

// Set is a card set as loaded from its source
type Set struct {
	Name  string
	Cards []card.Definition

	// Base is the directory or URL that relative image references resolve against.
	Base string
}

// setFile is the TOML layout of a card set
type setFile struct {
	Name  string            `toml:"name"`
	Cards []card.Definition `toml:"cards"`
}

// LoadSet loads a card set from source.
//
// An empty source selects the embedded builtin set. An http(s) URL is fetched
// once. A directory is searched for cards.json then cards.toml. Any other
// value is read as a file and decoded by extension.
func LoadSet(ctx context.Context, source string) (*Set, error) {
	if source == "" {
		return decodeSet(builtinCards, ".json", BuiltinName, "")
	}

	if isURL(source) {
		return fetchSet(ctx, source)
	}

	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("error opening card set: %w", err)
	}

	file := source
	if info.IsDir() {
		file, err = FindSetFile(source)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("error reading card set: %w", err)
	}

	name := filepath.Base(filepath.Dir(file))
	if !info.IsDir() {
		name = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}

	return decodeSet(data, filepath.Ext(file), name, filepath.Dir(file))
}

// FindSetFile returns the card list file inside a deck directory
func FindSetFile(dir string) (string, error) {
	for _, name := range []string{"cards.json", "cards.toml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no cards.json or cards.toml in %s", dir)
}

// fetchSet downloads a card set from a URL
func fetchSet(ctx context.Context, rawURL string) (*Set, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error building request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching card set: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("error fetching card set: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading card set: %w", err)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing card set URL: %w", err)
	}

	ext := path.Ext(u.Path)
	name := strings.TrimSuffix(path.Base(u.Path), ext)
	u.Path = path.Dir(u.Path)
	u.RawQuery = ""

	return decodeSet(data, ext, name, u.String())
}

// decodeSet parses raw card set data. JSON is a bare array of definitions;
// TOML carries a name and a [[cards]] table array.
func decodeSet(data []byte, ext, name, base string) (*Set, error) {
	set := &Set{Name: name, Base: base}

	switch strings.ToLower(ext) {
	case ".toml":
		var f setFile
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&f); err != nil {
			return nil, fmt.Errorf("error parsing card set: %w", err)
		}
		if f.Name != "" {
			set.Name = f.Name
		}
		set.Cards = f.Cards
	default:
		if err := json.Unmarshal(data, &set.Cards); err != nil {
			return nil, fmt.Errorf("error parsing card set: %w", err)
		}
	}

	if len(set.Cards) == 0 {
		return nil, ErrEmptySet
	}

	return set, nil
}

// Card looks up a definition by its match key
func (s *Set) Card(name string) (card.Definition, error) {
	for _, c := range s.Cards {
		if c.Name == name {
			return c, nil
		}
	}
	return card.Definition{}, fmt.Errorf("%w: %s", ErrCardNotFound, name)
}

// ResolveImage turns an image reference into something that can be opened:
// absolute paths and URLs are returned as is, relative ones are joined to Base.
func (s *Set) ResolveImage(ref string) string {
	if ref == "" || isURL(ref) || filepath.IsAbs(ref) || s.Base == "" {
		return ref
	}

	if isURL(s.Base) {
		u, err := url.Parse(s.Base)
		if err != nil {
			return ref
		}
		u.Path = path.Join(u.Path, ref)
		return u.String()
	}

	return filepath.Join(s.Base, ref)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
