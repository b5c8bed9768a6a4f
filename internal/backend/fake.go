package backend

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"docflow/internal/domain"
)

const fakeClaimsKey = "fake_claims"

type fakeAccount struct {
	user     domain.User
	password string
}

// Fake es una API en memoria con las mismas rutas y sobres JSON que la
// externa. Sirve para tests y para desarrollo local sin backend.
type Fake struct {
	mu          sync.Mutex
	logger      *zap.Logger
	tokens      *fakeTokenIssuer
	accounts    []fakeAccount
	documents   []domain.Document
	processes   []domain.Process
	links       []domain.ProcessDocument
	assignments []domain.Assignment
	versions    []domain.Version
	nextID      int
}

func NewFake(logger *zap.Logger, secret string, tokenTTL time.Duration) *Fake {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fake{
		logger: logger,
		tokens: newFakeTokenIssuer(secret, tokenTTL),
		nextID: 1,
	}
}

// AddUser registra un usuario con su password y le asigna id si no trae.
func (f *Fake) AddUser(user domain.User, password string) domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == 0 {
		user.ID = f.allocID()
	}
	f.accounts = append(f.accounts, fakeAccount{user: user, password: password})
	return user
}

func (f *Fake) AddDocument(doc domain.Document) domain.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	if doc.ID == 0 {
		doc.ID = f.allocID()
	}
	f.documents = append(f.documents, doc)
	return doc
}

func (f *Fake) AddProcess(p domain.Process) domain.Process {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == 0 {
		p.ID = f.allocID()
	}
	f.processes = append(f.processes, p)
	return p
}

func (f *Fake) LinkDocument(processID, documentID int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.links = append(f.links, domain.ProcessDocument{ProcessID: processID, DocumentID: documentID})
}

func (f *Fake) AddAssignment(a domain.Assignment) domain.Assignment {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID == 0 {
		a.ID = f.allocID()
	}
	f.assignments = append(f.assignments, a)
	return a
}

func (f *Fake) AddVersion(v domain.Version) domain.Version {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v.ID == 0 {
		v.ID = f.allocID()
	}
	f.versions = append(f.versions, v)
	return v
}

// Assignments devuelve una copia de las asignaciones guardadas.
func (f *Fake) Assignments() []domain.Assignment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.assignments)
}

// Handler expone la API bajo /api.
func (f *Fake) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.POST("/auth/login", f.login)

	authed := api.Group("")
	authed.Use(f.bearerMiddleware())
	authed.GET("/documentos", f.listDocuments)
	authed.GET("/documentos/:id", f.getDocument)
	authed.POST("/documentos", f.createDocument)
	authed.PUT("/documentos/:id", f.updateDocument)
	authed.GET("/procesos", f.listProcesses)
	authed.GET("/procesos/:id", f.getProcess)
	authed.POST("/procesos", f.createProcess)
	authed.PUT("/procesos/:id", f.updateProcess)
	authed.GET("/ProcesosDocumentos/:id", f.listProcessDocuments)
	authed.GET("/asignaciones", f.listAssignments)
	authed.POST("/asignaciones", f.createAssignment)
	authed.GET("/usuarios", f.listUsers)
	authed.POST("/versionxs", f.listVersions)

	return r
}

func (f *Fake) bearerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		claims, err := f.tokens.parse(strings.TrimSpace(header[len("Bearer "):]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(fakeClaimsKey, claims)
		c.Next()
	}
}

func (f *Fake) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	f.mu.Lock()
	var found *domain.User
	for i := range f.accounts {
		acc := f.accounts[i]
		if strings.EqualFold(acc.user.Email, req.Email) && acc.password == req.Password {
			found = &acc.user
			break
		}
	}
	f.mu.Unlock()

	if found == nil || !found.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	token, exp, err := f.tokens.sign(*found)
	if err != nil {
		f.logger.Error("fake sign token failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not sign token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"token":      token,
		"expiration": exp.Format(time.RFC3339),
	}})
}

func (f *Fake) listDocuments(c *gin.Context) {
	f.mu.Lock()
	docs := slices.Clone(f.documents)
	f.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"documentos": docs}})
}

func (f *Fake) getDocument(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := slices.IndexFunc(f.documents, func(d domain.Document) bool { return d.ID == id })
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"documento": f.documents[i]}})
}

func (f *Fake) createDocument(c *gin.Context) {
	var in domain.DocumentInput
	if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Code) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	f.mu.Lock()
	doc := documentFromInput(f.allocID(), in, "pendiente")
	f.documents = append(f.documents, doc)
	f.mu.Unlock()
	c.JSON(http.StatusCreated, gin.H{"data": gin.H{"documento": doc}})
}

func (f *Fake) updateDocument(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in domain.DocumentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := slices.IndexFunc(f.documents, func(d domain.Document) bool { return d.ID == id })
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}
	f.documents[i] = documentFromInput(id, in, f.documents[i].Status)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"documento": f.documents[i]}})
}

func (f *Fake) listProcesses(c *gin.Context) {
	f.mu.Lock()
	items := slices.Clone(f.processes)
	f.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"procesos": items}})
}

func (f *Fake) getProcess(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := slices.IndexFunc(f.processes, func(p domain.Process) bool { return p.ID == id })
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "process not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"proceso": f.processes[i]}})
}

func (f *Fake) createProcess(c *gin.Context) {
	var in domain.ProcessInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	f.mu.Lock()
	p := processFromInput(f.allocID(), in)
	f.processes = append(f.processes, p)
	f.mu.Unlock()
	c.JSON(http.StatusCreated, gin.H{"data": gin.H{"proceso": p}})
}

func (f *Fake) updateProcess(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in domain.ProcessInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := slices.IndexFunc(f.processes, func(p domain.Process) bool { return p.ID == id })
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "process not found"})
		return
	}
	updated := processFromInput(id, in)
	if updated.Code == "" {
		updated.Code = f.processes[i].Code
	}
	f.processes[i] = updated
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"proceso": updated}})
}

func (f *Fake) listProcessDocuments(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	f.mu.Lock()
	var links []domain.ProcessDocument
	for _, l := range f.links {
		if l.ProcessID == id {
			links = append(links, l)
		}
	}
	f.mu.Unlock()
	if len(links) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no documents for process"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"procesoDocumento": links}})
}

func (f *Fake) listAssignments(c *gin.Context) {
	f.mu.Lock()
	items := slices.Clone(f.assignments)
	f.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"asignaciones": items}})
}

func (f *Fake) createAssignment(c *gin.Context) {
	var in domain.AssignmentInput
	if err := c.ShouldBindJSON(&in); err != nil || in.UserID <= 0 || strings.TrimSpace(in.Instruction) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	f.mu.Lock()
	a := domain.Assignment{
		ID:          f.allocID(),
		UserID:      in.UserID,
		Instruction: in.Instruction,
		DueAt:       in.DueAt,
		Status:      "pendiente",
	}
	f.assignments = append(f.assignments, a)
	f.mu.Unlock()
	c.JSON(http.StatusCreated, gin.H{"data": gin.H{"asignacion": a}})
}

func (f *Fake) listUsers(c *gin.Context) {
	f.mu.Lock()
	users := make([]domain.User, 0, len(f.accounts))
	for _, acc := range f.accounts {
		users = append(users, acc.user)
	}
	f.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"usuarios": users}})
}

func (f *Fake) listVersions(c *gin.Context) {
	var req struct {
		DocumentID int `json:"idDocumento"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.DocumentID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	f.mu.Lock()
	versions := make([]domain.Version, 0)
	for _, v := range f.versions {
		if v.DocumentID == req.DocumentID {
			versions = append(versions, v)
		}
	}
	f.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"versions": versions})
}

// allocID requiere f.mu tomado.
func (f *Fake) allocID() int {
	id := f.nextID
	f.nextID++
	return id
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func documentFromInput(id int, in domain.DocumentInput, status string) domain.Document {
	return domain.Document{
		ID:            id,
		Code:          in.Code,
		ReceivedAt:    in.ReceivedAt,
		DeliveredAt:   in.DeliveredAt,
		Deadline:      in.Deadline,
		Subject:       in.Subject,
		Notes:         in.Notes,
		Type:          in.Type,
		Status:        status,
		LatestVersion: in.LatestVersion,
		OwnerID:       in.OwnerID,
	}
}

func processFromInput(id int, in domain.ProcessInput) domain.Process {
	return domain.Process{
		ID:          id,
		Code:        in.Code,
		Description: in.Description,
		StartedAt:   in.StartedAt,
		UpdatedAt:   in.UpdatedAt,
		NotifiedAt:  in.NotifiedAt,
		FileInfo:    in.FileInfo,
	}
}
