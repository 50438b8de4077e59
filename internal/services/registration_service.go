package services

import (
	"errors"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"
	"time"

	"zhasqoldau/internal/models"
	"zhasqoldau/internal/pdf"
	"zhasqoldau/internal/storage"
	"zhasqoldau/internal/utils"
)

var (
	ErrAlreadyRegistered  = errors.New("user already registered")
	ErrFileTooLarge       = errors.New("file too large")
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
)

// FieldErrors — агрегированные ошибки полей: собираем всё за один проход,
// а не падаем на первом.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for k, v := range e {
		parts = append(parts, k+": "+v)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Ровно три документа регистрации.
const (
	DocPhoto        = "photo"
	DocIinScan      = "iin_scan"
	DocAddressProof = "address_proof"
)

var DocumentKinds = []string{DocPhoto, DocIinScan, DocAddressProof}

var allowedContentTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
}

var iinRe = regexp.MustCompile(`^\d{12}$`)

// ValidIIN — 12 цифр, без разделителей.
func ValidIIN(iin string) bool {
	return iinRe.MatchString(iin)
}

type RegisterDocument struct {
	Kind        string
	Filename    string
	ContentType string
	Size        int64
	Data        io.Reader
}

type RegisterInput struct {
	FirstName string
	LastName  string
	BirthDate string // YYYY-MM-DD
	IIN       string
	Phone     string
	Email     string
	District  string
	Documents []RegisterDocument
}

// Notifier — опциональный канал уведомлений о новых регистрациях.
type Notifier interface {
	RegistrationCompleted(user *models.User)
}

type RegistrationService struct {
	Users   UserStore
	Storage storage.Provider
	PdfGen  pdf.SummaryGenerator // может быть nil
	Email   EmailService         // может быть nil
	Notify  Notifier             // может быть nil
	MaxFile int64
	nowFunc func() time.Time
}

func NewRegistrationService(users UserStore, store storage.Provider, maxFile int64) *RegistrationService {
	return &RegistrationService{
		Users:   users,
		Storage: store,
		MaxFile: maxFile,
		nowFunc: time.Now,
	}
}

func (s *RegistrationService) now() time.Time {
	if s.nowFunc != nil {
		return s.nowFunc()
	}
	return time.Now()
}

// Register — конвейер регистрации. Порядок проверок жёсткий:
// поля → дубликат ИИН → тип/размер документов → запись файлов → пользователь.
// До проверки дубликата в хранилище ничего не пишем.
func (s *RegistrationService) Register(input *RegisterInput) (int, error) {
	if ferr := s.validateFields(input); len(ferr) > 0 {
		return 0, ferr
	}

	existing, err := s.Users.GetByIIN(input.IIN)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, ErrAlreadyRegistered
	}

	// сначала валидируем все документы, потом пишем
	for _, doc := range input.Documents {
		if _, ok := allowedContentTypes[doc.ContentType]; !ok {
			return 0, fmt.Errorf("%w: %s (%s)", ErrFileTypeNotAllowed, doc.Kind, doc.ContentType)
		}
		if doc.Size > s.MaxFile {
			return 0, fmt.Errorf("%w: %s (%d bytes)", ErrFileTooLarge, doc.Kind, doc.Size)
		}
	}

	var saved []string
	cleanup := func() {
		for _, loc := range saved {
			if err := s.Storage.Remove(loc); err != nil {
				log.Printf("[register] cleanup failed: loc=%s err=%v", loc, err)
			}
		}
	}

	for _, doc := range input.Documents {
		name, err := s.objectName(doc)
		if err != nil {
			cleanup()
			return 0, err
		}
		loc, err := s.Storage.Save(input.IIN, name, doc.Data, doc.Size, doc.ContentType)
		if err != nil {
			cleanup()
			return 0, fmt.Errorf("save %s: %w", doc.Kind, err)
		}
		saved = append(saved, loc)
	}

	user := &models.User{
		IIN:       input.IIN,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		BirthDate: input.BirthDate,
		Phone:     input.Phone,
		Email:     input.Email,
		District:  input.District,
		IsActive:  true,
	}
	if err := s.Users.Create(user); err != nil {
		cleanup()
		return 0, err
	}

	log.Printf("[register] ok: user_id=%d iin=%s docs=%d", user.ID, user.IIN, len(saved))
	s.afterRegister(user)
	return user.ID, nil
}

// afterRegister — необязательные шаги, фейлы не откатывают регистрацию.
func (s *RegistrationService) afterRegister(user *models.User) {
	if s.PdfGen != nil {
		if _, err := s.PdfGen.GenerateSummary(pdf.SummaryData{
			IIN:       user.IIN,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			District:  user.District,
			CreatedAt: s.now(),
		}); err != nil {
			log.Printf("[register] warning: summary pdf failed for user_id=%d: %v", user.ID, err)
		}
	}
	if s.Email != nil && user.Email != "" {
		if err := s.Email.SendWelcomeEmail(user.Email, user.FirstName); err != nil {
			log.Printf("[register] warning: welcome email failed for %s: %v", user.Email, err)
		}
	}
	if s.Notify != nil {
		s.Notify.RegistrationCompleted(user)
	}
}

// objectName — <kind>_<timestamp>_<rand>.<ext>: коллизии исключены
// даже при двух загрузках в одну секунду.
func (s *RegistrationService) objectName(doc RegisterDocument) (string, error) {
	suffix, err := utils.RandomSuffix(4)
	if err != nil {
		return "", err
	}
	ext := allowedContentTypes[doc.ContentType]
	return fmt.Sprintf("%s_%s_%s%s", doc.Kind, s.now().Format("20060102150405"), suffix, ext), nil
}

func (s *RegistrationService) validateFields(input *RegisterInput) FieldErrors {
	ferr := FieldErrors{}

	if strings.TrimSpace(input.FirstName) == "" {
		ferr["first_name"] = "required"
	}
	if strings.TrimSpace(input.LastName) == "" {
		ferr["last_name"] = "required"
	}
	if strings.TrimSpace(input.District) == "" {
		ferr["district"] = "required"
	}
	if strings.TrimSpace(input.Phone) == "" {
		ferr["phone"] = "required"
	}
	if !iinRe.MatchString(input.IIN) {
		ferr["iin"] = "must be 12 digits"
	}
	if input.BirthDate == "" {
		ferr["birth_date"] = "required"
	} else if _, err := time.Parse("2006-01-02", input.BirthDate); err != nil {
		ferr["birth_date"] = "must be YYYY-MM-DD"
	}

	kinds := map[string]bool{}
	for _, doc := range input.Documents {
		kinds[doc.Kind] = true
	}
	for _, kind := range DocumentKinds {
		if !kinds[kind] {
			ferr[kind] = "file required"
		}
	}

	return ferr
}
