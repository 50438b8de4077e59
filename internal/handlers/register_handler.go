package handlers

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"zhasqoldau/internal/httperr"
	"zhasqoldau/internal/services"
)

type RegisterHandler struct {
	Service *services.RegistrationService
	MaxForm int64 // общий лимит multipart-формы, байт
}

func NewRegisterHandler(service *services.RegistrationService, maxForm int64) *RegisterHandler {
	return &RegisterHandler{Service: service, MaxForm: maxForm}
}

// @Summary      Регистрация участника
// @Description  Поля анкеты + три документа: photo, iin_scan, address_proof
// @Tags         Auth
// @Accept       multipart/form-data
// @Produce      json
// @Success      201  {object}  map[string]int
// @Failure      400  {object}  httperr.Error
// @Failure      409  {object}  httperr.Error
// @Router       /auth/register [post]
func (h *RegisterHandler) Register(c *gin.Context) {
	// общий предохранитель на размер формы
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxForm)

	if err := c.Request.ParseMultipartForm(h.MaxForm); err != nil {
		httperr.JSON(c, httperr.New(http.StatusBadRequest, httperr.CodeFileTooLarge, "multipart form too large or malformed"))
		return
	}

	input := &services.RegisterInput{
		FirstName: strings.TrimSpace(c.PostForm("first_name")),
		LastName:  strings.TrimSpace(c.PostForm("last_name")),
		BirthDate: strings.TrimSpace(c.PostForm("birth_date")),
		IIN:       strings.TrimSpace(c.PostForm("iin")),
		Phone:     strings.TrimSpace(c.PostForm("phone")),
		Email:     strings.TrimSpace(c.PostForm("email")),
		District:  strings.TrimSpace(c.PostForm("district")),
	}

	var opened []multipart.File
	defer func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}()

	for _, kind := range services.DocumentKinds {
		fh, err := c.FormFile(kind)
		if err != nil {
			continue // отсутствие файла агрегирует сервисная валидация
		}
		f, err := fh.Open()
		if err != nil {
			log.Printf("[register] open %s failed: %v", kind, err)
			httperr.JSON(c, httperr.Internal())
			return
		}
		opened = append(opened, f)
		input.Documents = append(input.Documents, services.RegisterDocument{
			Kind:        kind,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Data:        f,
		})
	}

	userID, err := h.Service.Register(input)
	if err != nil {
		var ferr services.FieldErrors
		switch {
		case errors.As(err, &ferr):
			httperr.JSON(c, httperr.Validation(ferr))
		case errors.Is(err, services.ErrAlreadyRegistered):
			httperr.JSON(c, httperr.New(http.StatusConflict, httperr.CodeUserExists, "user with this iin already registered"))
		case errors.Is(err, services.ErrFileTypeNotAllowed):
			httperr.JSON(c, httperr.New(http.StatusBadRequest, httperr.CodeFileType, "only PDF, JPEG and PNG are allowed"))
		case errors.Is(err, services.ErrFileTooLarge):
			httperr.JSON(c, httperr.New(http.StatusBadRequest, httperr.CodeFileTooLarge, "document exceeds the size limit"))
		default:
			log.Printf("[register] service error: %v", err)
			httperr.JSON(c, httperr.Internal())
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user_id": userID})
}
