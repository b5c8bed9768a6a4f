package domain

type Process struct {
	ID          int    `json:"idProceso"`
	Code        string `json:"codigo"`
	Description string `json:"descripcion,omitempty"`
	StartedAt   string `json:"fechaInicio,omitempty"`
	UpdatedAt   string `json:"fechaActualizacion,omitempty"`
	NotifiedAt  string `json:"fechaNotificacion,omitempty"`
	FileInfo    string `json:"infoArchivo,omitempty"`
}

type ProcessInput struct {
	Code        string `json:"codigo,omitempty"`
	StartedAt   string `json:"fechaInicio"`
	UpdatedAt   string `json:"fechaActualizacion"`
	NotifiedAt  string `json:"fechaNotificacion"`
	Description string `json:"descripcion"`
	FileInfo    string `json:"infoArchivo"`
}

// ProcessDocument vincula un documento con el proceso al que pertenece.
type ProcessDocument struct {
	ProcessID  int `json:"idProceso"`
	DocumentID int `json:"idDocumento"`
}
