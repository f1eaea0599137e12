// normalize.go
package migration

import (
	"strings"
	"unicode"
)

// The normalizers convert raw fixture maps into canonical records. They are
// pure: no I/O, no errors. Missing optional fields become zero values or a
// documented default, so any well-formed map produces a usable record.

// firstString returns the first non-empty string among the given keys.
func firstString(data map[string]any, keys ...string) string {
	for _, key := range keys {
		if v := getString(data, key); v != "" {
			return v
		}
	}
	return ""
}

// imageURL resolves the image aliases used across fixtures: image_url,
// imageUrl, image, or the first element of an images array.
func imageURL(data map[string]any) string {
	if v := firstString(data, "image_url", "imageUrl", "image", "avatar_url", "avatarUrl", "avatar"); v != "" {
		return v
	}
	if imgs := getStringArray(data, "images"); len(imgs) > 0 {
		return imgs[0]
	}
	return ""
}

// cleanseString removes control characters and trims whitespace. Fixture
// strings occasionally carry stray control bytes from hand editing.
func cleanseString(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(cleaned)
}

// DecideAccountType settles a user's account type exactly once, at
// ingestion. An explicit accountType field wins; otherwise the legacy
// naming conventions are applied here and nowhere else downstream.
func DecideAccountType(data map[string]any) string {
	explicit := strings.ToLower(firstString(data, "account_type", "accountType"))
	switch explicit {
	case "personal", "business", "roaster":
		return explicit
	}

	id := firstString(data, "id", "userId")
	name := firstString(data, "full_name", "fullName", "name", "userName", "username")

	switch {
	case strings.HasPrefix(id, "roaster-"),
		strings.Contains(name, "Roasters"),
		strings.Contains(name, "Roastery"):
		return "roaster"
	case strings.HasPrefix(id, "business-"),
		strings.Contains(name, "Café"),
		strings.Contains(name, "Cafe "):
		return "business"
	default:
		return "personal"
	}
}

// NormalizeUser maps a raw user fixture record to its canonical shape,
// including the per-user savedCoffees and following reference arrays.
func NormalizeUser(data map[string]any) UserRecord {
	reviews := getInt(data, "review_count")
	if reviews == 0 {
		reviews = getInt(data, "reviewCount")
	}

	return UserRecord{
		LegacyID:    cleanseString(firstString(data, "id", "userId")),
		Email:       strings.ToLower(cleanseString(firstString(data, "email"))),
		FullName:    cleanseString(firstString(data, "full_name", "fullName", "name")),
		Username:    cleanseString(firstString(data, "username", "userName", "handle")),
		AvatarURL:   imageURL(data),
		Location:    cleanseString(firstString(data, "location", "city")),
		AccountType: DecideAccountType(data),
		Bio:         cleanseString(firstString(data, "bio", "description")),
		Rating:      getFloat(data, "rating"),
		ReviewCount: reviews,
		SavedRefs:   getStringArray(data, "savedCoffees"),
		FollowRefs:  getStringArray(data, "following"),
	}
}

// NormalizeCoffee maps a raw coffee fixture record to its canonical shape.
// roast_level defaults to "medium" when the fixture omits it.
func NormalizeCoffee(data map[string]any) CoffeeRecord {
	roast := strings.ToLower(firstString(data, "roast_level", "roastLevel", "roast"))
	if roast == "" {
		roast = "medium"
	}

	notes := getStringArray(data, "tasting_notes")
	if len(notes) == 0 {
		notes = getStringArray(data, "tastingNotes")
	}
	if len(notes) == 0 {
		notes = getStringArray(data, "notes")
	}

	return CoffeeRecord{
		LegacyID:     cleanseString(firstString(data, "id", "coffeeId")),
		Name:         cleanseString(firstString(data, "name", "title")),
		Roaster:      cleanseString(firstString(data, "roaster", "roasterName")),
		Origin:       cleanseString(firstString(data, "origin", "country")),
		Process:      cleanseString(firstString(data, "process", "processing")),
		RoastLevel:   roast,
		TastingNotes: notes,
		Price:        getFloat(data, "price"),
		ImageURL:     imageURL(data),
	}
}

// NormalizeRecipe maps a raw recipe fixture record to its canonical shape.
// FK fields keep their legacy values here; resolution happens at migration
// time.
func NormalizeRecipe(data map[string]any) RecipeRecord {
	params, _ := data["brewParams"].(map[string]any)
	if params == nil {
		params = data
	}

	return RecipeRecord{
		LegacyID:        cleanseString(firstString(data, "id", "recipeId")),
		AuthorID:        cleanseString(firstString(data, "author_id", "authorId", "userId")),
		CoffeeID:        cleanseString(firstString(data, "coffee_id", "coffeeId")),
		Method:          cleanseString(firstString(params, "method", "brewMethod")),
		GrindSize:       cleanseString(firstString(params, "grind_size", "grindSize", "grind")),
		DoseGrams:       getFloat(params, "doseGrams"),
		YieldGrams:      getFloat(params, "yieldGrams"),
		TempCelsius:     getFloat(params, "tempCelsius"),
		BrewTimeSeconds: getInt(params, "brewTimeSeconds"),
		Rating:          getFloat(data, "rating"),
		Steps:           getStringArray(data, "steps"),
		Notes:           cleanseString(firstString(data, "notes")),
	}
}

// NormalizeGear maps a raw gear fixture record to its canonical shape.
func NormalizeGear(data map[string]any) GearRecord {
	return GearRecord{
		LegacyID: cleanseString(firstString(data, "id", "gearId")),
		Name:     cleanseString(firstString(data, "name", "title")),
		Brand:    cleanseString(firstString(data, "brand", "manufacturer")),
		Category: strings.ToLower(cleanseString(firstString(data, "category", "type"))),
		Price:    getFloat(data, "price"),
		ImageURL: imageURL(data),
	}
}

// NormalizeEvent maps a raw timeline event record to its canonical shape.
// Unknown event types default to coffee_log rather than failing.
func NormalizeEvent(data map[string]any) EventRecord {
	kind := firstString(data, "type", "eventType", "kind")
	switch kind {
	case "coffee_log", "gear_added", "coffee_announcement":
	default:
		kind = "coffee_log"
	}

	params, _ := data["brewParams"].(map[string]any)
	if params == nil {
		params = data
	}

	gearIDs := getStringArray(data, "gearIds")
	if len(gearIDs) == 0 {
		gearIDs = getStringArray(data, "gear")
	}

	return EventRecord{
		LegacyID:        cleanseString(firstString(data, "id", "eventId")),
		UserID:          cleanseString(firstString(data, "user_id", "userId")),
		CoffeeID:        cleanseString(firstString(data, "coffee_id", "coffeeId")),
		Type:            kind,
		Rating:          getFloat(data, "rating"),
		Notes:           cleanseString(firstString(data, "notes", "caption")),
		Method:          cleanseString(firstString(params, "method", "brewMethod")),
		DoseGrams:       getFloat(params, "doseGrams"),
		YieldGrams:      getFloat(params, "yieldGrams"),
		TempCelsius:     getFloat(params, "tempCelsius"),
		BrewTimeSeconds: getInt(params, "brewTimeSeconds"),
		GearIDs:         gearIDs,
		CreatedAt:       getTime(data, "createdAt"),
	}
}
