package logsvc

import (
	"bytes"
	"log"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/gradebook/core"
)

func TestRollbarLogger_print(t *testing.T) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(log.New(&buf, "", 0), &core.Config{TestMode: true, Env: "test"})

	req := httptest.NewRequest("DELETE", "/students/1?force=1", nil)
	logger.Error("Internal Server Error", errors.New("boom"), map[string]interface{}{"student": 1}, req)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Internal Server Error\nboom\n"), out)
	assert.Contains(t, out, "map[student:1]\n")
	assert.True(t, strings.HasSuffix(out, "DELETE /students/1\n"), out)
	assert.NotContains(t, out, "force=1")
}
