package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/balkashynov/rangelog/internal/models"
)

// ParsedFirearm represents a firearm parsed from one line of input
type ParsedFirearm struct {
	Brand     string
	Model     string
	Caliber   string
	Class     models.FirearmClass
	Magazines []int
	Errors    []string
}

// ParsedAmmo represents an ammo product parsed from one line of input
type ParsedAmmo struct {
	Brand       string
	Caliber     string
	GrainWeight int
	BulletType  models.BulletType
	BoxQuantity *int
	Errors      []string
}

var (
	caliberRegex = regexp.MustCompile(`@([^\s]+)`)
	classRegex   = regexp.MustCompile(`#([a-zA-Z_-]+)`)
	magsRegex    = regexp.MustCompile(`\bmags?:([0-9,]+)`)
	grainsRegex  = regexp.MustCompile(`\b(\d+)\s*gr\b`)
	boxRegex     = regexp.MustCompile(`\bx(\d+)\b`)
)

// ParseFirearm extracts firearm fields using natural syntax
// Syntax: "Glock 19 @9mm #handgun mag:15,17"
// The first remaining word is the brand, the rest is the model.
func ParseFirearm(input string) ParsedFirearm {
	result := ParsedFirearm{Class: models.ClassOther, Errors: []string{}}

	// Extract caliber (@9mm)
	if m := caliberRegex.FindStringSubmatch(input); len(m) > 1 {
		result.Caliber = m[1]
		input = caliberRegex.ReplaceAllString(input, "")
	}

	// Extract class (#rifle)
	if m := classRegex.FindStringSubmatch(input); len(m) > 1 {
		class, err := ParseFirearmClass(m[1])
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
		} else {
			result.Class = class
		}
		input = classRegex.ReplaceAllString(input, "")
	}

	// Extract magazine capacities (mag:15,17)
	if m := magsRegex.FindStringSubmatch(input); len(m) > 1 {
		for _, part := range strings.Split(m[1], ",") {
			if part == "" {
				continue
			}
			n, err := strconv.Atoi(part)
			if err != nil || n <= 0 {
				result.Errors = append(result.Errors, "Invalid magazine capacity '"+part+"'")
				continue
			}
			result.Magazines = append(result.Magazines, n)
		}
		input = magsRegex.ReplaceAllString(input, "")
	}

	result.Brand, result.Model = splitName(input)
	if result.Brand == "" {
		result.Errors = append(result.Errors, "Brand is required")
	}
	return result
}

// ParseAmmo extracts ammo product fields using natural syntax
// Syntax: "Federal @9mm 115gr #fmj x50"
func ParseAmmo(input string) ParsedAmmo {
	result := ParsedAmmo{BulletType: models.BulletFMJ, Errors: []string{}}

	if m := caliberRegex.FindStringSubmatch(input); len(m) > 1 {
		result.Caliber = m[1]
		input = caliberRegex.ReplaceAllString(input, "")
	}

	// Extract bullet type (#jhp)
	if m := classRegex.FindStringSubmatch(input); len(m) > 1 {
		bt, err := ParseBulletType(m[1])
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
		} else {
			result.BulletType = bt
		}
		input = classRegex.ReplaceAllString(input, "")
	}

	// Extract grain weight (115gr)
	if m := grainsRegex.FindStringSubmatch(input); len(m) > 1 {
		result.GrainWeight, _ = strconv.Atoi(m[1])
		input = grainsRegex.ReplaceAllString(input, "")
	}

	// Extract box quantity (x50)
	if m := boxRegex.FindStringSubmatch(input); len(m) > 1 {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			result.BoxQuantity = &n
		} else {
			result.Errors = append(result.Errors, "Invalid box quantity '"+m[1]+"'")
		}
		input = boxRegex.ReplaceAllString(input, "")
	}

	result.Brand = strings.Join(strings.Fields(input), " ")
	if result.Brand == "" {
		result.Errors = append(result.Errors, "Brand is required")
	}
	if result.Caliber == "" {
		result.Errors = append(result.Errors, "Caliber is required (e.g. @9mm)")
	}
	return result
}

// splitName cleans up leftover text and splits it into brand and model
func splitName(input string) (string, string) {
	fields := strings.Fields(input)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}
