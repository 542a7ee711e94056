package bulk

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hy25/casamento/internal/database"
)

// SurnameGroup is a candidate family: guests sharing a surname token.
type SurnameGroup struct {
	Surname string
	Guests  []*database.Guest
}

// GroupBySurname buckets guests by the lowercased last token of their name
// and keeps only buckets with at least two members. This is a best-effort
// heuristic: unrelated guests sharing a common surname will be grouped
// together, which is why the resulting family groups stay editable rather
// than authoritative.
func GroupBySurname(guests []*database.Guest) []SurnameGroup {
	buckets := make(map[string][]*database.Guest)
	for _, guest := range guests {
		surname := surnameOf(guest.Name)
		if surname == "" {
			continue
		}
		buckets[surname] = append(buckets[surname], guest)
	}

	var groups []SurnameGroup
	for surname, members := range buckets {
		if len(members) < 2 {
			continue
		}
		groups = append(groups, SurnameGroup{Surname: surname, Guests: members})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Surname < groups[j].Surname })
	return groups
}

// FamilyName renders a display name like "Família Souza" for a surname.
func FamilyName(surname string) string {
	return "Família " + cases.Title(language.BrazilianPortuguese).String(surname)
}

func surnameOf(name string) string {
	fields := strings.Fields(strings.TrimSpace(name))
	if len(fields) < 2 {
		// A single token gives no usable surname signal.
		return ""
	}
	return strings.ToLower(fields[len(fields)-1])
}
