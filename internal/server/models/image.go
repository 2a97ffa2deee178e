package models

import "time"

// ImageKey is the bookkeeping row of one object-storage blob. The row and
// the object may disagree between a cascade delete and the next cleanup
// run; the cleanup job is the only component that deletes objects.
type ImageKey struct {
	// Key is the object path in the bucket, e.g. "u1/d2/e3/<uuid>.jpg".
	Key      string
	EntryID  string
	UploadAt time.Time

	// Deleting is set while a cleanup run holds a claim on the row;
	// DeletingAt tells when the claim was taken.
	Deleting   bool
	DeletingAt *time.Time

	Name     string
	Mimetype string
	Size     int64
}

// GeoData is the optional location of an image.
type GeoData struct {
	Key string
	Lon float64
	Lat float64
}

// ImageUpload tells the client where to PUT the image bytes.
type ImageUpload struct {
	Key string
	URL string
}
