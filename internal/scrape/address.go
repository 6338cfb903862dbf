package scrape

import (
	"regexp"
	"strings"
)

// streetSuffixes are the tokens that mark a line as a street address.
var streetSuffixes = map[string]bool{
	"st": true, "street": true, "ave": true, "avenue": true,
	"blvd": true, "boulevard": true, "rd": true, "road": true,
	"dr": true, "drive": true, "ln": true, "lane": true,
	"ct": true, "court": true, "pl": true, "place": true, "way": true,
	"pkwy": true, "parkway": true, "hwy": true, "highway": true,
	"cir": true, "circle": true, "trl": true, "trail": true,
}

// badAddressPhrases appear in page titles and marketing copy, which on
// these listing pages also mention the state ("... in Whittier, CA").
var badAddressPhrases = []string{
	"top ", "best gas", "gas prices", "cheap fuel", "stations in", "in ",
}

var (
	houseNumberRe = regexp.MustCompile(`^\d{1,6}\s`)
	wordRe        = regexp.MustCompile(`[a-zA-Z]+`)
)

// LooksLikeAddress reports whether one line of card text reads like a
// street address: a leading house number plus a recognized street
// suffix somewhere after it. Title-like lines that mention the state
// are rejected first. A line such as "123 Ocean" fails the suffix
// requirement; precision is preferred over recall here because a wrong
// address poisons row deduplication downstream.
func LooksLikeAddress(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" {
		return false
	}

	low := strings.ToLower(s)

	if strings.Contains(low, " ca") {
		for _, p := range badAddressPhrases {
			if strings.Contains(low, p) {
				return false
			}
		}
	}

	if !houseNumberRe.MatchString(s) {
		return false
	}

	for _, tok := range wordRe.FindAllString(low, -1) {
		if streetSuffixes[tok] {
			return true
		}
	}
	return false
}
