package dto

import (
	"mime/multipart"
	"regexp"
	"sort"
	"strconv"
	"time"
)

// UploadDocumentRequest carries the document-level multipart fields. The
// bracket-indexed section fields are parsed separately by ParseSections.
type UploadDocumentRequest struct {
	Title        string `form:"title" binding:"required"`
	CourseName   string `form:"courseName" binding:"required"`
	UniversityID string `form:"universityId" binding:"required"`
	CourseCode   string `form:"courseCode"`
	LecturerName string `form:"lecturerName"`
	Description  string `form:"description"`
}

// SectionUpload is one reconstructed section with its raw file attachments.
type SectionUpload struct {
	Title string
	Files []*multipart.FileHeader
}

var sectionKeyPattern = regexp.MustCompile(`^sections\[(\d+)\]\[(title|files)\]$`)

// ParseSections rebuilds the ordered section list from the flat multipart
// key space. Clients encode sections as sections[N][title] and
// sections[N][files]; a title field and file fields sharing an index belong
// to the same section. Indices are compacted in ascending order, so sparse
// numbering still yields a dense list.
func ParseSections(form *multipart.Form) []SectionUpload {
	byIndex := make(map[int]*SectionUpload)

	for key, values := range form.Value {
		match := sectionKeyPattern.FindStringSubmatch(key)
		if match == nil || match[2] != "title" || len(values) == 0 {
			continue
		}
		index, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		entry := ensureSection(byIndex, index)
		entry.Title = values[0]
	}

	for key, headers := range form.File {
		match := sectionKeyPattern.FindStringSubmatch(key)
		if match == nil || match[2] != "files" {
			continue
		}
		index, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		entry := ensureSection(byIndex, index)
		entry.Files = append(entry.Files, headers...)
	}

	indices := make([]int, 0, len(byIndex))
	for index := range byIndex {
		indices = append(indices, index)
	}
	sort.Ints(indices)

	sections := make([]SectionUpload, 0, len(indices))
	for _, index := range indices {
		sections = append(sections, *byIndex[index])
	}
	return sections
}

func ensureSection(byIndex map[int]*SectionUpload, index int) *SectionUpload {
	if entry, ok := byIndex[index]; ok {
		return entry
	}
	entry := &SectionUpload{}
	byIndex[index] = entry
	return entry
}

// UploadDocumentResponse acknowledges a pending upload.
type UploadDocumentResponse struct {
	Message    string `json:"message"`
	DocumentID string `json:"documentId"`
}

// DocumentListItem is one row of the paginated public listing.
type DocumentListItem struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  *string        `json:"description"`
	CreatedAt    time.Time      `json:"createdAt"`
	CourseName   string         `json:"courseName"`
	CourseCode   *string        `json:"courseCode"`
	LecturerName *string        `json:"lecturerName"`
	UniversityID string         `json:"universityId"`
	Sections     []SectionGroup `json:"sections"`
}

// DocumentDetail carries the full nested document for the detail page.
type DocumentDetail struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  *string        `json:"description"`
	CreatedAt    time.Time      `json:"createdAt"`
	CourseName   string         `json:"courseName"`
	CourseCode   *string        `json:"courseCode"`
	LecturerName *string        `json:"lecturerName"`
	UniversityID string         `json:"universityId"`
	Sections     []SectionGroup `json:"sections"`
}

// SectionGroup nests stored files under a section title.
type SectionGroup struct {
	Title string     `json:"title"`
	Files []FileItem `json:"files"`
}

// FileItem points the client at the download redirector for one stored file.
type FileItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	FileType string `json:"fileType"`
	Size     int    `json:"size"`
}
