package script

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kvlang/keyva/internal/config"
)

func TestRunMissingFileReturnsExitCodeOne(t *testing.T) {
	var out, diags bytes.Buffer
	code := Run(filepath.Join(t.TempDir(), "nope.kv"), config.Defaults(), &out, &diags)
	assert.Equal(t, 1, code)
	assert.Empty(t, out.String())
	assert.Contains(t, diags.String(), "cannot open")
}

func TestRunScriptFileExitsZeroOnSuccess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.kv")
	assert.NoError(t, os.WriteFile(path, []byte("print(1+2*3)"), 0o644))

	var out, diags bytes.Buffer
	code := Run(path, config.Defaults(), &out, &diags)
	assert.Equal(t, 0, code)
	assert.Equal(t, "7\n", out.String())
}

func TestRunSourceReportsErrorsButReturnsZero(t *testing.T) {
	out, diags, code := RunCapture("x = )\nprint(1)", config.Defaults())
	assert.Equal(t, 0, code, "program errors are reported, not fatal (spec.md section 6/7)")
	assert.NotEmpty(t, diags)
	assert.Equal(t, "1\n", out)
}

func TestRunSourceEndToEnd(t *testing.T) {
	out, _, code := RunCapture(`def square(n)
return n*n
end
print(square(7))`, config.Defaults())
	assert.Equal(t, 0, code)
	assert.Equal(t, "49\n", out)
}
