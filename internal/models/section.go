// ABOUTME: Document outline sections produced by the markdown structure parser
// ABOUTME: Breadcrumbs join ancestor titles with " > "
package models

// DocumentSection is one titled span of a structured document. Level 0
// marks the synthetic root section used for documents without headings.
// Parent is a lookup edge only, never serialized.
type DocumentSection struct {
	Level      int              `json:"level"`
	Title      string           `json:"title"`
	Content    string           `json:"content"`
	Breadcrumb string           `json:"breadcrumb"`
	Parent     *DocumentSection `json:"-"`
}
