package validator

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSet(t *testing.T, dir, cards string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cards.json"), []byte(cards), 0644))
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 2, 2))))
}

func joined(lines []string) string {
	return strings.Join(lines, "\n")
}

func TestValidateCleanSet(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "apple.png"))
	writePNG(t, filepath.Join(dir, "pear.png"))
	writeSet(t, dir, `[{"name":"apple","image":"apple.png"},{"name":"pear","image":"pear.png"}]`)

	results, err := NewValidator(dir).Validate()
	require.NoError(t, err)
	assert.Empty(t, results.Errors)
	assert.Empty(t, results.Warnings)
}

func TestValidateReportsProblems(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "apple.png"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("nope"), 0644))
	writeSet(t, dir, `[
		{"name":"apple","image":"apple.png"},
		{"name":"apple","image":"apple.png"},
		{"name":"","image":"apple.png"},
		{"name":"plum","image":"missing.png"},
		{"name":"fig","image":"broken.png"},
		{"name":"kiwi","image":""},
		{"name":"lime","image":"https://cdn.test/lime.png"},
		{"name":"date","image":"date.svg"}
	]`)

	results, err := NewValidator(dir).Validate()
	require.NoError(t, err)

	errs := joined(results.Errors)
	assert.Contains(t, errs, `duplicate card name "apple" (cards 1 and 2)`)
	assert.Contains(t, errs, "card 3 has no name")
	assert.Contains(t, errs, `card "plum" image not found`)
	assert.Contains(t, errs, `card "fig" image cannot be decoded`)

	warns := joined(results.Warnings)
	assert.Contains(t, warns, `card "kiwi" has no image`)
	assert.Contains(t, warns, `card "lime" image is remote`)
	assert.Contains(t, warns, `card "date" image is SVG`)
}

func TestValidateEmptySet(t *testing.T) {
	dir := t.TempDir()
	writeSet(t, dir, `[]`)

	results, err := NewValidator(dir).Validate()
	require.NoError(t, err)
	assert.Equal(t, []string{"card set has no cards"}, results.Errors)
}

func TestValidateLargeSetWarns(t *testing.T) {
	dir := t.TempDir()
	var cards []string
	for i := 0; i < MaxComfortableCards+1; i++ {
		cards = append(cards, `{"name":"c`+string(rune('a'+i))+`","image":""}`)
	}
	writeSet(t, dir, "["+strings.Join(cards, ",")+"]")

	results, err := NewValidator(dir).Validate()
	require.NoError(t, err)
	assert.Contains(t, joined(results.Warnings), "may not fit the terminal")
}

func TestValidateUnreadable(t *testing.T) {
	_, err := NewValidator(filepath.Join(t.TempDir(), "missing")).Validate()
	assert.Error(t, err)
}
