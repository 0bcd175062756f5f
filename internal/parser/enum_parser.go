package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/balkashynov/rangelog/internal/analytics"
	"github.com/balkashynov/rangelog/internal/models"
)

// short names shooters actually type
var malfunctionAliases = map[string]models.MalfunctionKind{
	"ftf":        models.MalfunctionFailureToFeed,
	"feed":       models.MalfunctionFailureToFeed,
	"ftx":        models.MalfunctionFailureToExtract,
	"extract":    models.MalfunctionFailureToExtract,
	"pipe":       models.MalfunctionStovepipe,
	"sp":         models.MalfunctionStovepipe,
	"fte":        models.MalfunctionFailureToEject,
	"eject":      models.MalfunctionFailureToEject,
	"ls":         models.MalfunctionLightStrike,
	"light":      models.MalfunctionLightStrike,
	"click":      models.MalfunctionLightStrike,
	"df":         models.MalfunctionDoubleFeed,
	"double":     models.MalfunctionDoubleFeed,
	"ftlb":       models.MalfunctionFailureToLockBack,
	"lockback":   models.MalfunctionFailureToLockBack,
	"lock_back":  models.MalfunctionFailureToLockBack,
	"misc":       models.MalfunctionOther,
	"unknown":    models.MalfunctionOther,
	"stove_pipe": models.MalfunctionStovepipe,
}

// normalize lowercases and folds spaces and dashes into underscores
func normalize(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	return s
}

// ParseMalfunctionKind accepts a kind name ("light strike", "failure-to-feed")
// or a common abbreviation ("ftf", "fte", "ls")
func ParseMalfunctionKind(input string) (models.MalfunctionKind, error) {
	s := normalize(input)
	for _, k := range models.MalfunctionKinds() {
		if s == string(k) {
			return k, nil
		}
	}
	if k, ok := malfunctionAliases[s]; ok {
		return k, nil
	}
	return "", fmt.Errorf("unknown malfunction %q. Use: ftf, ftx, stovepipe, fte, ls, df, ftlb or other", input)
}

// ParseRange parses a reporting window: 7d, 30d, 90d, ytd or all
func ParseRange(input string) (analytics.Range, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	switch s {
	case "", "all", "alltime", "all_time":
		return analytics.AllTime, nil
	case "week", "7", "7d":
		return analytics.Last7Days, nil
	case "month", "30", "30d":
		return analytics.Last30Days, nil
	case "quarter", "90", "90d":
		return analytics.Last90Days, nil
	case "ytd", "year":
		return analytics.YearToDate, nil
	}
	return "", fmt.Errorf("invalid range %q. Use: 7d, 30d, 90d, ytd or all", input)
}

// ParseBulletType parses a bullet type; empty input means fmj
func ParseBulletType(input string) (models.BulletType, error) {
	s := normalize(input)
	if s == "" {
		return models.BulletFMJ, nil
	}
	for _, bt := range models.BulletTypes() {
		if s == string(bt) {
			return bt, nil
		}
	}
	return "", fmt.Errorf("invalid bullet type %q. Use: %s", input, joinValues(models.BulletTypes()))
}

// ParseFirearmClass parses a firearm class; empty input means other
func ParseFirearmClass(input string) (models.FirearmClass, error) {
	s := normalize(input)
	switch s {
	case "":
		return models.ClassOther, nil
	case "pistol", "revolver":
		return models.ClassHandgun, nil
	case "carbine":
		return models.ClassRifle, nil
	}
	for _, c := range models.FirearmClasses() {
		if s == string(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid class %q. Use: %s", input, joinValues(models.FirearmClasses()))
}

// ParsePhotoTag parses a photo tag; empty input means target
func ParsePhotoTag(input string) (models.PhotoTag, error) {
	switch normalize(input) {
	case "", "target":
		return models.PhotoTarget, nil
	case "malfunction", "malf":
		return models.PhotoMalfunction, nil
	}
	return "", fmt.Errorf("invalid photo tag %q. Use: target or malfunction", input)
}

var grainRegex = regexp.MustCompile(`^(\d+)\s*(?:gr|grain|grains)?$`)

// ParseGrain parses a bullet weight such as "115", "115gr" or "124 grain"
func ParseGrain(input string) (int, error) {
	m := grainRegex.FindStringSubmatch(strings.ToLower(strings.TrimSpace(input)))
	if m == nil {
		return 0, fmt.Errorf("invalid grain weight %q", input)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid grain weight %q", input)
	}
	return n, nil
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
