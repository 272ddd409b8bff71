package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	uaIPhone  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15"
	uaAndroid = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36"
	uaDesktop = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"
)

func TestIsMobile(t *testing.T) {
	assert.True(t, IsMobile(uaIPhone))
	assert.True(t, IsMobile(uaAndroid))
	assert.False(t, IsMobile(uaDesktop))
	assert.False(t, IsMobile(""))
}

func TestIsIOS(t *testing.T) {
	assert.True(t, IsIOS(uaIPhone))
	assert.False(t, IsIOS(uaAndroid))
	assert.False(t, IsIOS(uaDesktop))
}
