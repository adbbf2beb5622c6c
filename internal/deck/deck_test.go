package deck

import (
	"context"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/concentration/internal/card"
)

func defs(names ...string) []card.Definition {
	out := make([]card.Definition, len(names))
	for i, n := range names {
		out[i] = card.Definition{Name: n, Image: n + ".png"}
	}
	return out
}

// scripted returns a fixed sequence of draws and records the bounds asked for
type scripted struct {
	draws  []int
	bounds []int
}

func (s *scripted) Intn(n int) int {
	s.bounds = append(s.bounds, n)
	v := s.draws[0]
	s.draws = s.draws[1:]
	return v
}

func TestNewDoublesEveryDefinition(t *testing.T) {
	for n := 1; n <= 12; n++ {
		names := make([]string, n)
		for i := range names {
			names[i] = string(rune('a' + i))
		}

		d := New(defs(names...))
		require.Len(t, d, 2*n)

		counts := map[string]int{}
		for _, c := range d {
			counts[c.Name]++
		}
		for _, name := range names {
			assert.Equal(t, 2, counts[name], "key %s", name)
		}
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	d := New(defs("apple", "pear", "plum", "fig", "kiwi", "lime", "date", "nut"))
	before := d.Keys()
	sort.Strings(before)

	d.Shuffle(rand.New(rand.NewSource(42)))

	after := d.Keys()
	sort.Strings(after)
	assert.Equal(t, before, after)
}

func TestShuffleDeterministicForSeed(t *testing.T) {
	a := New(defs("a", "b", "c", "d", "e", "f"))
	b := New(defs("a", "b", "c", "d", "e", "f"))

	a.Shuffle(rand.New(rand.NewSource(7)))
	b.Shuffle(rand.New(rand.NewSource(7)))

	assert.Equal(t, a.Keys(), b.Keys())
}

func TestShuffleWalksFromLastIndexDown(t *testing.T) {
	d := Deck(defs("a", "b", "c", "d"))
	rng := &scripted{draws: []int{0, 0, 0}}

	d.Shuffle(rng)

	// bounds are i+1 for i = 3, 2, 1
	assert.Equal(t, []int{4, 3, 2}, rng.bounds)
	// swap(3,0) -> d b c a; swap(2,0) -> c b d a; swap(1,0) -> b c d a
	assert.Equal(t, []string{"b", "c", "d", "a"}, d.Keys())
}

func TestShuffleIsRoughlyUniform(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	counts := map[string]int{}
	const rounds = 6000

	for i := 0; i < rounds; i++ {
		d := Deck(defs("a", "b", "c"))
		d.Shuffle(rng)
		k := d.Keys()
		counts[k[0]+k[1]+k[2]]++
	}

	require.Len(t, counts, 6)
	for perm, n := range counts {
		assert.InDelta(t, rounds/6, n, 150, "permutation %s", perm)
	}
}

func TestLoadSetBuiltin(t *testing.T) {
	set, err := LoadSet(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, BuiltinName, set.Name)
	assert.Len(t, set.Cards, 8)
	assert.Len(t, New(set.Cards), 16)
}

func TestLoadSetSources(t *testing.T) {
	dir := t.TempDir()

	jsonDir := filepath.Join(dir, "fruits")
	require.NoError(t, os.MkdirAll(jsonDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(jsonDir, "cards.json"),
		[]byte(`[{"name":"apple","image":"img/apple.png"},{"name":"pear","image":"img/pear.png"}]`), 0644))

	tomlFile := filepath.Join(dir, "animals.toml")
	require.NoError(t, os.WriteFile(tomlFile, []byte(`
name = "Animals"

[[cards]]
name = "owl"
image = "owl.png"

[[cards]]
name = "fox"
image = "/abs/fox.png"
`), 0644))

	tests := []struct {
		name     string
		source   string
		wantName string
		wantKeys []string
	}{
		{name: "json directory", source: jsonDir, wantName: "fruits", wantKeys: []string{"apple", "pear"}},
		{name: "json file", source: filepath.Join(jsonDir, "cards.json"), wantName: "cards", wantKeys: []string{"apple", "pear"}},
		{name: "toml file", source: tomlFile, wantName: "Animals", wantKeys: []string{"owl", "fox"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := LoadSet(context.Background(), tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, set.Name)

			var keys []string
			for _, c := range set.Cards {
				keys = append(keys, c.Name)
			}
			assert.Equal(t, tt.wantKeys, keys)
		})
	}
}

func TestResolveImage(t *testing.T) {
	local := &Set{Base: "/decks/fruits"}
	assert.Equal(t, filepath.Join("/decks/fruits", "img/apple.png"), local.ResolveImage("img/apple.png"))
	assert.Equal(t, "/abs/fox.png", local.ResolveImage("/abs/fox.png"))
	assert.Equal(t, "https://cdn.test/a.png", local.ResolveImage("https://cdn.test/a.png"))
	assert.Equal(t, "", local.ResolveImage(""))

	remote := &Set{Base: "https://example.test/data"}
	assert.Equal(t, "https://example.test/data/img/apple.png", remote.ResolveImage("img/apple.png"))
}

func TestLoadSetFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/cards.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`[{"name":"sun","image":"sun.png"}]`))
	}))
	defer srv.Close()

	set, err := LoadSet(context.Background(), srv.URL+"/data/cards.json")
	require.NoError(t, err)
	assert.Equal(t, "cards", set.Name)
	require.Len(t, set.Cards, 1)
	assert.Equal(t, srv.URL+"/data/sun.png", set.ResolveImage(set.Cards[0].Image))

	_, err = LoadSet(context.Background(), srv.URL+"/missing.json")
	assert.Error(t, err)
}

func TestLoadSetFailures(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`[]`), 0644))
	_, err := LoadSet(context.Background(), empty)
	assert.ErrorIs(t, err, ErrEmptySet)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"name":`), 0644))
	_, err = LoadSet(context.Background(), broken)
	assert.Error(t, err)

	_, err = LoadSet(context.Background(), filepath.Join(dir, "nope"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadSet(context.Background(), dir)
	assert.Error(t, err)
}

func TestSetCard(t *testing.T) {
	set := &Set{Cards: defs("moon", "sun")}

	c, err := set.Card("sun")
	require.NoError(t, err)
	assert.Equal(t, "sun.png", c.Image)

	_, err = set.Card("star")
	assert.ErrorIs(t, err, ErrCardNotFound)
}
