package leads

import (
	"math/rand/v2"
	"strings"
	"unicode"
)

// Rand is the randomness the generator draws names, emails and score jitter
// from. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// globalRand uses the goroutine-safe top-level source.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

var (
	firstNames = []string{
		"James", "John", "Robert", "Michael", "William", "David", "Richard", "Joseph",
		"Thomas", "Charles", "Mary", "Patricia", "Jennifer", "Linda", "Elizabeth",
		"Barbara", "Susan", "Jessica", "Sarah", "Karen", "Lisa", "Nancy", "Margaret",
	}
	lastNames = []string{
		"Smith", "Johnson", "Williams", "Jones", "Brown", "Davis", "Miller", "Wilson",
		"Moore", "Taylor", "Anderson", "Thomas", "Jackson", "White", "Harris", "Martin",
		"Thompson", "Garcia", "Martinez", "Robinson", "Clark", "Rodriguez", "Lewis",
	}
	techFirstNames = []string{"Alex", "Sam", "Jordan", "Taylor", "Casey"}
	execLastNames  = []string{"Blackwell", "Montgomery", "Wellington", "Rothschild"}
)

// emailTemplates build the local part of an address.
var emailTemplates = []func(first, last string) string{
	func(f, l string) string { return f + "." + l },
	func(f, l string) string { return initial(f) + l },
	func(f, _ string) string { return f },
	func(_, l string) string { return l },
	func(f, l string) string { return initial(f) + "." + l },
	func(f, l string) string { return f + initial(l) },
}

func initial(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}

// roleWords splits a role title into lowercase words.
func roleWords(role string) map[string]bool {
	words := strings.FieldsFunc(strings.ToLower(role), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func hasAny(words map[string]bool, candidates ...string) bool {
	for _, c := range candidates {
		if words[c] {
			return true
		}
	}
	return false
}

// fabricateName draws a name, widening the pools for technical and
// executive roles.
func fabricateName(role string, rnd Rand) (first, last string) {
	words := roleWords(role)
	firsts, lasts := firstNames, lastNames
	if hasAny(words, "cto", "technical") {
		firsts = append(append([]string(nil), firstNames...), techFirstNames...)
	}
	if hasAny(words, "ceo", "president") {
		lasts = append(append([]string(nil), lastNames...), execLastNames...)
	}
	return firsts[rnd.IntN(len(firsts))], lasts[rnd.IntN(len(lasts))]
}

// fabricateEmail applies a random address template to the name.
func fabricateEmail(first, last, domain string, rnd Rand) string {
	f, l := emailPart(first), emailPart(last)
	local := emailTemplates[rnd.IntN(len(emailTemplates))](f, l)
	if local == "" {
		local = "contact"
	}
	return local + "@" + strings.ToLower(domain)
}

func emailPart(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
