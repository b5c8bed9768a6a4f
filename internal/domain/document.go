package domain

// Document es el registro de documento tal como lo devuelve la API externa.
// Las fechas se mantienen como texto para que una fecha mal formada llegue
// intacta al clasificador de urgencia.
type Document struct {
	ID            int    `json:"idDocumento"`
	Code          string `json:"codigoDoc"`
	ReceivedAt    string `json:"fechaRecepcionFca,omitempty"`
	DeliveredAt   string `json:"fechaEntrega,omitempty"`
	Deadline      string `json:"fechaPlazo,omitempty"`
	Subject       string `json:"asuntoDoc,omitempty"`
	Notes         string `json:"observaciones,omitempty"`
	Type          string `json:"tipoDocumento,omitempty"`
	Status        string `json:"estado,omitempty"`
	LatestVersion int    `json:"ultimaVersion,omitempty"`
	OwnerID       int    `json:"idEncargado,omitempty"`
}

// DocumentInput es el cuerpo de alta y edicion de documentos.
type DocumentInput struct {
	ID            int    `json:"idDocumento,omitempty"`
	Code          string `json:"codigoDoc"`
	ReceivedAt    string `json:"fechaRecepcionFca"`
	DeliveredAt   string `json:"fechaEntrega"`
	Deadline      string `json:"fechaPlazo"`
	Subject       string `json:"asuntoDoc"`
	Notes         string `json:"observaciones"`
	Type          string `json:"tipoDocumento"`
	LatestVersion int    `json:"ultimaVersion"`
	OwnerID       int    `json:"idEncargado"`
}

// RankedDocument acompana un documento con su clasificacion de urgencia.
type RankedDocument struct {
	Document
	Urgency Urgency `json:"urgency"`
}
