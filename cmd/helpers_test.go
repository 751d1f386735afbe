package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/viper"

	"github.com/pders01/catalog-delta/internal/config"
	"github.com/pders01/catalog-delta/internal/testutil"
)

// setupCatalog points the commands at the fixture data directory and
// captures their output
func setupCatalog(t *testing.T) (*testutil.TempCatalog, *bytes.Buffer) {
	t.Helper()

	c := testutil.NewFixtureCatalog(t)
	buf := &bytes.Buffer{}

	oldOut, oldFS := out, dataFS
	out = buf
	dataFS = c.Fs
	loader = nil
	variantFlag = ""

	viper.Reset()
	config.SetDefaults()
	viper.Set("data.dir", c.Root)

	t.Cleanup(func() {
		out, dataFS, loader = oldOut, oldFS, nil
		variantFlag = ""
		viper.Reset()
	})
	return c, buf
}

func decodeJSON(t *testing.T, buf *bytes.Buffer, v any) {
	t.Helper()
	if err := json.Unmarshal(buf.Bytes(), v); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, buf.String())
	}
}
