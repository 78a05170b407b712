// Package domain holds the static reference tables the validation engine
// reads: opening hours, pricing, discounts, course schedules, shop
// inventory and facility rules. The tables ship embedded; the engine does
// not own or mutate them.
package domain

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var tablesRaw []byte

// HoursRange is one opening interval, keyed by a day-range code such as
// "Mon-Fri" that must be expanded against the ordered weekday list.
type HoursRange struct {
	Days  string `yaml:"days"`
	Open  string `yaml:"open"`
	Close string `yaml:"close"`
}

// ShopItem describes one sellable article. Colors and Sizes may be empty;
// a stage that does not apply to the item is skipped during validation.
type ShopItem struct {
	Price  float64  `yaml:"price"`
	Colors []string `yaml:"colors"`
	Sizes  []string `yaml:"sizes"`
	Brand  string   `yaml:"brand"`
}

type tableSet struct {
	OpeningHours   map[string][]HoursRange       `yaml:"opening_hours"`
	Pricing        map[string]map[string]float64 `yaml:"pricing"`
	Discounts      map[string]float64            `yaml:"discounts"`
	CourseSchedule map[string][]string           `yaml:"course_schedule"`
	TargetAges     []string                      `yaml:"target_ages"`
	Levels         []string                      `yaml:"levels"`
	ShopInventory  map[string]ShopItem           `yaml:"shop_inventory"`
	Rules          map[string]string             `yaml:"rules"`
}

var tables tableSet

func init() {
	if err := yaml.Unmarshal(tablesRaw, &tables); err != nil {
		panic(fmt.Sprintf("domain: decode embedded tables: %v", err))
	}
}

// Weekdays is the ordered week used to expand day-range codes.
var Weekdays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

var weekdayShort = map[string]int{
	"mon": 0, "tue": 1, "wed": 2, "thu": 3, "fri": 4, "sat": 5, "sun": 6,
}

// ExpandDayRange expands a code like "Mon-Fri" or "Sat" into full weekday
// names. Unknown codes expand to nothing.
func ExpandDayRange(code string) []string {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}
	parts := strings.SplitN(code, "-", 2)
	from, ok := weekdayShort[strings.ToLower(strings.TrimSpace(parts[0]))]
	if !ok {
		return nil
	}
	to := from
	if len(parts) == 2 {
		to, ok = weekdayShort[strings.ToLower(strings.TrimSpace(parts[1]))]
		if !ok {
			return nil
		}
	}
	if to < from {
		return nil
	}
	return Weekdays[from : to+1]
}

// RangeContains reports whether a day-range code covers the weekday.
func RangeContains(code, weekday string) bool {
	for _, d := range ExpandDayRange(code) {
		if strings.EqualFold(d, weekday) {
			return true
		}
	}
	return false
}

// HoursFor returns the opening interval covering the weekday, or false
// when the facility is closed that day.
func HoursFor(facility, weekday string) (HoursRange, bool) {
	for _, r := range tables.OpeningHours[facility] {
		if RangeContains(r.Days, weekday) {
			return r, true
		}
	}
	return HoursRange{}, false
}

// OpeningHours returns all opening intervals for a facility.
func OpeningHours(facility string) ([]HoursRange, bool) {
	rs, ok := tables.OpeningHours[facility]
	return rs, ok
}

// Facilities lists the facilities with opening hours, sorted.
func Facilities() []string {
	return sortedKeys(tables.OpeningHours)
}

// PricedFacilities lists the facilities with a price list, sorted.
func PricedFacilities() []string {
	return sortedKeys(tables.Pricing)
}

// PriceList returns the subscription price table for a facility.
func PriceList(facility string) (map[string]float64, bool) {
	p, ok := tables.Pricing[facility]
	return p, ok
}

// SubscriptionTypes lists the subscriptions available for a facility,
// sorted.
func SubscriptionTypes(facility string) []string {
	return sortedKeys(tables.Pricing[facility])
}

// Discount returns the price multiplier for a user category.
func Discount(category string) (float64, bool) {
	d, ok := tables.Discounts[category]
	return d, ok
}

// UserCategories lists the known discount categories, sorted.
func UserCategories() []string {
	return sortedKeys(tables.Discounts)
}

// CourseDays returns the fixed allowed-weekday set for a course activity.
func CourseDays(activity string) ([]string, bool) {
	days, ok := tables.CourseSchedule[activity]
	return days, ok
}

// Courses lists the known course activities, sorted.
func Courses() []string {
	return sortedKeys(tables.CourseSchedule)
}

// TargetAges lists the allowed course age categories.
func TargetAges() []string { return tables.TargetAges }

// Levels lists the allowed course levels.
func Levels() []string { return tables.Levels }

// Item returns the inventory entry for a shop article.
func Item(name string) (ShopItem, bool) {
	it, ok := tables.ShopInventory[name]
	return it, ok
}

// Items lists the sellable articles, sorted.
func Items() []string {
	return sortedKeys(tables.ShopInventory)
}

// RuleFor fuzzy-matches a topic against the facility rules table. The
// match is containment in either direction, as topics arrive in free
// form ("swimming caps", "cap").
func RuleFor(topic string) (string, bool) {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic == "" {
		return "", false
	}
	for _, key := range sortedKeys(tables.Rules) {
		if strings.Contains(topic, key) || strings.Contains(key, topic) {
			return tables.Rules[key], true
		}
	}
	return "", false
}

// NormalizeKey canonicalizes a user-supplied table key: lower-cased,
// spaces collapsed to underscores.
func NormalizeKey(v string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(v)), " ", "_")
}

// ResolveKey matches a normalized user value against a table key set,
// accepting an exact hit or a unique substring match in either direction
// ("pool" resolves to "swimming_pool").
func ResolveKey(value string, keys []string) (string, bool) {
	v := NormalizeKey(value)
	if v == "" {
		return "", false
	}
	for _, k := range keys {
		if k == v {
			return k, true
		}
	}
	var match string
	for _, k := range keys {
		if strings.Contains(k, v) || strings.Contains(v, k) {
			if match != "" {
				return "", false // ambiguous
			}
			match = k
		}
	}
	return match, match != ""
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
