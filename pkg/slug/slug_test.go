package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	assert.Equal(t, "silk-sarees", Generate("Silk Sarees"))
	assert.Equal(t, "cotton-linen", Generate("Cotton &  Linen!"))
	assert.Equal(t, "kanchipuram", Generate("  Kanchipuram  "))
	assert.Equal(t, "", Generate("!!!"))
	assert.Equal(t, "sale-2026", Generate("Sale 2026"))
}
