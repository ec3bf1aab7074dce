package dto

// PostDocumentResponse resultado de contabilizar un documento.
type PostDocumentResponse struct {
	DocumentID string             `json:"document_id"`
	Movements  []MovementResponse `json:"movements"`
	Stats      []StatResponse     `json:"stats"`
}
