package translate

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("line 3 'LOAD' value missing", From("line %d '%v' %v", 3, "LOAD", "value missing"))
	assert.Equal("plain", From("plain"))
}

func TestFprintf(t *testing.T) {
	assert := assert.New(t)

	buf := &bytes.Buffer{}
	n, err := Fprintf(buf, "R%d = %d\n", 1, 15)
	assert.NoError(err)
	assert.Equal(len("R1 = 15\n"), n)
	assert.Equal("R1 = 15\n", buf.String())

	_, err = Fprintf(nil, "x")
	assert.Error(err)
}
