// Package people generates the Person fixtures listed by the pagination
// demos. They stand in for a database table: built once at startup, never
// modified afterwards.
package people

import "math/rand/v2"

// Person is one fixture row.
type Person struct {
	ID   int
	Name string
}

var firstNames = []string{
	"Ada", "Alan", "Amara", "Beatriz", "Bjorn", "Carmen", "Chidi", "Dmitri",
	"Elena", "Farah", "Grace", "Hiroshi", "Ines", "Jamal", "Katarina", "Liam",
	"Mei", "Nadia", "Omar", "Priya", "Quentin", "Rosa", "Sven", "Tariq",
	"Uma", "Victor", "Wanjiru", "Xavier", "Yara", "Zoltan",
}

var lastNames = []string{
	"Abara", "Bergstrom", "Castillo", "Dubois", "Eriksen", "Fujita", "Garcia",
	"Hopper", "Ivanova", "Jensen", "Kowalski", "Lovelace", "Mensah", "Nakamura",
	"Okafor", "Petrov", "Quispe", "Rossi", "Santos", "Turing", "Umarov",
	"Vasquez", "Weber", "Xu", "Yilmaz", "Zhang",
}

// Generate returns n people with IDs 1..n. The same seed always yields the
// same names.
func Generate(n int, seed uint64) []Person {
	if n < 0 {
		n = 0
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]Person, n)
	for i := range out {
		out[i] = Person{
			ID:   i + 1,
			Name: firstNames[rng.IntN(len(firstNames))] + " " + lastNames[rng.IntN(len(lastNames))],
		}
	}
	return out
}

// Bind converts a person to template bindings.
func Bind(p Person) map[string]any {
	return map[string]any{"id": p.ID, "name": p.Name}
}
