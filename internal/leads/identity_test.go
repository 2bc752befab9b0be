package leads

import (
	"math/rand/v2"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

// indexRand returns a fixed index clamped to n.
type indexRand int

func (r indexRand) IntN(n int) int {
	if int(r) >= n {
		return n - 1
	}
	return int(r)
}

func TestFabricateName_RolePools(t *testing.T) {
	first, last := fabricateName("Analyst", fixedRand{high: true})
	assert.Equal(t, "Margaret", first)
	assert.Equal(t, "Lewis", last)

	first, _ = fabricateName("CTO", fixedRand{high: true})
	assert.Equal(t, "Casey", first)

	_, last = fabricateName("CEO", fixedRand{high: true})
	assert.Equal(t, "Rothschild", last)
}

func TestFabricateEmail_Templates(t *testing.T) {
	want := []string{
		"jane.doe@acme.com",
		"jdoe@acme.com",
		"jane@acme.com",
		"doe@acme.com",
		"j.doe@acme.com",
		"janed@acme.com",
	}
	for i, w := range want {
		assert.Equal(t, w, fabricateEmail("Jane", "Doe", "Acme.com", indexRand(i)))
	}
}

func TestFabricateEmail_AlwaysAddress(t *testing.T) {
	re := regexp.MustCompile(`^[a-z0-9.]+@example\.com$`)
	rnd := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		first, last := fabricateName("Director of IT", rnd)
		assert.Regexp(t, re, fabricateEmail(first, last, "example.com", rnd))
	}
	assert.Equal(t, "contact@example.com", fabricateEmail("", "", "example.com", indexRand(2)))
}
