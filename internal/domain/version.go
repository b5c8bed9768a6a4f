package domain

type Version struct {
	ID         int    `json:"idVersion"`
	DocumentID int    `json:"idDocumento,omitempty"`
	Comment    string `json:"comentario"`
	ModifiedAt string `json:"fechaModificacion"`
	IsFinal    bool   `json:"versionFinal"`
}
