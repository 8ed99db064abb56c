package model

// Note is an uploaded academic document record.
type Note struct {
	ID           int64   `json:"id"`
	Subject      string  `json:"subject"`
	Topic        string  `json:"topic"`
	Semester     string  `json:"semester"`
	UploaderName string  `json:"uploaded_by"`
	FileName     string  `json:"file_name"`
	FilePath     string  `json:"-"`
	Description  string  `json:"description,omitempty"`
	UploadDate   string  `json:"upload_date"`
	Downloads    int64   `json:"downloads"`
	Rating       float64 `json:"rating"`
}

// MaxNoteFileSize is the upload ceiling for note attachments.
const MaxNoteFileSize = 10 << 20
