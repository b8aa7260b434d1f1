package models

// UploadRequest is a document posted to the import endpoint.
type UploadRequest struct {
	File        []byte
	Filename    string
	ContentType string
	SurveyTopic string
}
