package models

// InternationalizedString is one localized value of a multilingual label.
// Templates authored in the back office carry their titles in several
// languages; this service only ever reads them.
type InternationalizedString struct {
	Language string `bson:"language" json:"language"`
	Value    string `bson:"value" json:"value"`
}

// FirstValue returns the first localized value, or the fallback when the
// list is empty. Display fields snapshotted onto requests use this.
func FirstValue(titles []InternationalizedString, fallback string) string {
	if len(titles) == 0 {
		return fallback
	}
	return titles[0].Value
}
