package devserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/store"
)

func userWithName(email, displayName string) model.User {
	return model.User{Email: email, DisplayName: displayName, Role: "USER"}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abort(c, http.StatusBadRequest, "invalid id "+c.Param("id"))
		return 0, false
	}
	return id, true
}

func bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		abort(c, http.StatusBadRequest, "malformed request body: "+err.Error())
		return false
	}
	return true
}

// === Auth ===

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

type profileRequest struct {
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req) {
		return
	}
	ctx := c.Request.Context()

	rec, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(req.Password)) != nil {
		abort(c, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token := uuid.NewString()
	if err := s.store.CreateToken(ctx, token, rec.ID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": rec.User})
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if !bind(c, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		abort(c, http.StatusBadRequest, "email and password are required")
		return
	}
	if strings.TrimSpace(req.Code) == "" || !s.verifier.Verify(req.Email, req.Code) {
		abort(c, http.StatusBadRequest, "verification code is wrong or expired")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(c, err)
		return
	}
	email := normalizeEmail(req.Email)
	name, _, _ := strings.Cut(email, "@")
	u, err := s.store.CreateUser(c.Request.Context(), store.UserRecord{
		User:         userWithName(email, name),
		PasswordHash: string(hash),
	})
	if errors.Is(err, store.ErrConflict) {
		abort(c, http.StatusBadRequest, "email already registered")
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) sendCode(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		abort(c, http.StatusBadRequest, "email is required")
		return
	}
	code := s.verifier.Issue(email)
	if err := s.mailer.SendCode(email, code); err != nil {
		// Delivery failures are logged only; the code stays valid.
		s.logMailError(email, err)
	}
	c.Status(http.StatusOK)
}

func (s *Server) me(c *gin.Context) {
	u, err := s.store.GetUserByID(c.Request.Context(), currentUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) updateProfile(c *gin.Context) {
	var req profileRequest
	if !bind(c, &req) {
		return
	}
	u, err := s.store.UpdateProfile(c.Request.Context(), currentUser(c), req.DisplayName, req.AvatarURL)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// === Projects ===

type projectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) listProjects(c *gin.Context) {
	projects, err := s.store.ListProjects(c.Request.Context(), currentUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (s *Server) getProject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := s.store.GetProject(c.Request.Context(), currentUser(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) createProject(c *gin.Context) {
	var req projectRequest
	if !bind(c, &req) {
		return
	}
	p, err := s.store.CreateProject(c.Request.Context(), currentUser(c), model.Project{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (s *Server) updateProject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req projectRequest
	if !bind(c, &req) {
		return
	}
	p, err := s.store.UpdateProject(c.Request.Context(), currentUser(c), model.Project{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) deleteProject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.store.DeleteProject(c.Request.Context(), currentUser(c), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// === Tasks ===

type taskRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Status      *model.Status   `json:"status"`
	Priority    *model.Priority `json:"priority"`
	DueAt       *time.Time      `json:"dueAt"`
	RemindAt    *time.Time      `json:"remindAt"`
	Tags        *[]string       `json:"tags"`
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// parseSort splits "field,DIRECTION"; direction defaults to DESC.
func parseSort(raw string) (field string, asc bool) {
	field, dir, _ := strings.Cut(raw, ",")
	return strings.TrimSpace(field), strings.EqualFold(strings.TrimSpace(dir), "ASC")
}

func (s *Server) searchTasks(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	f := store.TaskFilter{Keyword: strings.TrimSpace(c.Query("keyword"))}
	if raw := c.Query("status"); raw != "" {
		st := model.Status(strings.ToUpper(raw))
		if !st.Valid() {
			abort(c, http.StatusBadRequest, "unknown status "+raw)
			return
		}
		f.Status = &st
	}
	for _, tag := range c.QueryArray("tags") {
		for _, t := range strings.Split(tag, ",") {
			if t = strings.TrimSpace(t); t != "" {
				f.Tags = append(f.Tags, t)
			}
		}
	}
	var err error
	if f.Page, err = strconv.Atoi(c.DefaultQuery("page", "0")); err != nil {
		abort(c, http.StatusBadRequest, "invalid page")
		return
	}
	if f.Size, err = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(store.DefaultPageSize))); err != nil {
		abort(c, http.StatusBadRequest, "invalid size")
		return
	}
	f.SortBy, f.SortAsc = parseSort(c.DefaultQuery("sort", "createdAt,DESC"))

	page, err := s.store.SearchTasks(c.Request.Context(), currentUser(c), id, f)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) createTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req taskRequest
	if !bind(c, &req) {
		return
	}
	t, err := s.store.CreateTask(c.Request.Context(), currentUser(c), id, model.Task{
		Title:       deref(req.Title),
		Description: deref(req.Description),
		Status:      deref(req.Status),
		Priority:    deref(req.Priority),
		DueAt:       req.DueAt,
		RemindAt:    req.RemindAt,
		Tags:        deref(req.Tags),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (s *Server) updateTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req taskRequest
	if !bind(c, &req) {
		return
	}
	t, err := s.store.UpdateTask(c.Request.Context(), currentUser(c), id, store.TaskChanges{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueAt:       req.DueAt,
		RemindAt:    req.RemindAt,
		Tags:        req.Tags,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *Server) archiveTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.store.ArchiveTask(c.Request.Context(), currentUser(c), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) deleteTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.store.DeleteTask(c.Request.Context(), currentUser(c), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) clearAll(c *gin.Context) {
	if err := s.store.ClearAll(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
