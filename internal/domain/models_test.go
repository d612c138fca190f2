package domain

import "testing"

func TestResourceKindValid(t *testing.T) {
	for _, kind := range AllResourceKinds {
		if !kind.Valid() {
			t.Errorf("Expected %s to be valid", kind)
		}
	}

	for _, kind := range []ResourceKind{"", "mp3", "TXT", "artwork"} {
		if kind.Valid() {
			t.Errorf("Expected %s to be invalid", kind)
		}
	}
}
