package cli

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// entityPrefixes maps entity types to their expected ID prefixes
var entityPrefixes = map[string]string{
	"event":      "EVT",
	"assignment": "DUTY",
	"user":       "USR",
}

var digitsOnly = regexp.MustCompile(`^\d+$`)

// validateEntityID checks if an ID has the correct prefix format.
// Returns an error with helpful message if the ID appears to be a short ID.
func validateEntityID(id, entityType string) error {
	if id == "" {
		return nil // Empty is OK, let other validation handle required fields
	}

	prefix, ok := entityPrefixes[entityType]
	if !ok {
		return nil // Unknown entity type, skip validation
	}

	expectedPattern := prefix + "-"
	if strings.HasPrefix(id, expectedPattern) {
		return nil
	}

	// Check if it looks like a short ID (just digits)
	if digitsOnly.MatchString(id) {
		n, _ := strconv.Atoi(id)
		return fmt.Errorf("invalid %s ID '%s'. Use full ID format: %s-%04d", entityType, id, prefix, n)
	}

	// Check if it's using wrong case
	if strings.HasPrefix(strings.ToUpper(id), expectedPattern) {
		return fmt.Errorf("invalid %s ID '%s'. IDs are case-sensitive, use: %s", entityType, id, strings.ToUpper(id))
	}

	return fmt.Errorf("invalid %s ID '%s'. Expected format: %s-0001", entityType, id, prefix)
}

// validateEntityIDs runs validateEntityID over every id.
func validateEntityIDs(ids []string, entityType string) error {
	for _, id := range ids {
		if err := validateEntityID(id, entityType); err != nil {
			return err
		}
	}
	return nil
}

// splitIDs accepts IDs as separate arguments or comma separated.
func splitIDs(args []string) []string {
	var ids []string
	for _, arg := range args {
		for _, id := range strings.Split(arg, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
