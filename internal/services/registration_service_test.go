package services

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- in-memory storage.Provider ---

type memStorage struct {
	mu      sync.Mutex
	saved   []string
	removed []string
	failOn  string // подстрока имени, на которой Save падает
}

func (s *memStorage) Save(iin, name string, r io.Reader, size int64, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn != "" && strings.Contains(name, s.failOn) {
		return "", fmt.Errorf("disk full")
	}
	loc := iin + "/" + name
	s.saved = append(s.saved, loc)
	return loc, nil
}

func (s *memStorage) Remove(location string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, location)
	return nil
}

func (s *memStorage) savedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

func validInput() *RegisterInput {
	return &RegisterInput{
		FirstName: "Айдос",
		LastName:  "Сейтказы",
		BirthDate: "2003-05-14",
		IIN:       "030514550123",
		Phone:     "+77010000001",
		Email:     "aidos@example.kz",
		District:  "Алмалинский",
		Documents: []RegisterDocument{
			{Kind: DocPhoto, Filename: "me.jpg", ContentType: "image/jpeg", Size: 100, Data: strings.NewReader("jpg")},
			{Kind: DocIinScan, Filename: "iin.pdf", ContentType: "application/pdf", Size: 200, Data: strings.NewReader("pdf")},
			{Kind: DocAddressProof, Filename: "addr.png", ContentType: "image/png", Size: 300, Data: strings.NewReader("png")},
		},
	}
}

func newTestRegistration() (*RegistrationService, *memUserStore, *memStorage) {
	users := newMemUserStore()
	store := &memStorage{}
	svc := NewRegistrationService(users, store, 2<<20)
	return svc, users, store
}

func TestRegisterHappyPath(t *testing.T) {
	svc, users, store := newTestRegistration()

	id, err := svc.Register(validInput())
	require.NoError(t, err)
	assert.Equal(t, 1, id)
	assert.Equal(t, 3, store.savedCount())

	user, err := users.GetByIIN("030514550123")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.True(t, user.IsActive)
	assert.Equal(t, "Айдос", user.FirstName)
}

func TestRegisterObjectNamesAreUnique(t *testing.T) {
	svc, _, store := newTestRegistration()

	_, err := svc.Register(validInput())
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, loc := range store.saved {
		assert.False(t, seen[loc], "имя повторилось: %s", loc)
		seen[loc] = true
		assert.True(t, strings.HasPrefix(loc, "030514550123/"), "файлы под каталогом ИИН: %s", loc)
	}
}

func TestRegisterDuplicateIIN(t *testing.T) {
	svc, users, store := newTestRegistration()

	_, err := svc.Register(validInput())
	require.NoError(t, err)
	savedAfterFirst := store.savedCount()

	_, err = svc.Register(validInput())
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
	// до проверки дубликата в хранилище ничего не пишем
	assert.Equal(t, savedAfterFirst, store.savedCount())
	assert.Equal(t, 1, users.count())
}

func TestRegisterFileTooLarge(t *testing.T) {
	svc, users, store := newTestRegistration()

	input := validInput()
	input.Documents[1].Size = 2<<20 + 1 // 2 MB + 1 байт

	_, err := svc.Register(input)
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Equal(t, 0, store.savedCount())
	assert.Equal(t, 0, users.count())
}

func TestRegisterFileTypeNotAllowed(t *testing.T) {
	svc, users, store := newTestRegistration()

	input := validInput()
	input.Documents[0].ContentType = "image/gif"

	_, err := svc.Register(input)
	assert.ErrorIs(t, err, ErrFileTypeNotAllowed)
	assert.Equal(t, 0, store.savedCount())
	assert.Equal(t, 0, users.count())
}

func TestRegisterFieldErrorsAggregated(t *testing.T) {
	svc, _, _ := newTestRegistration()

	input := validInput()
	input.FirstName = ""
	input.IIN = "12345"
	input.BirthDate = "14.05.2003"
	input.Documents = input.Documents[:1] // не хватает двух файлов

	_, err := svc.Register(input)
	var ferr FieldErrors
	require.True(t, errors.As(err, &ferr))

	assert.Contains(t, ferr, "first_name")
	assert.Contains(t, ferr, "iin")
	assert.Contains(t, ferr, "birth_date")
	assert.Contains(t, ferr, DocIinScan)
	assert.Contains(t, ferr, DocAddressProof)
	assert.NotContains(t, ferr, "last_name")
}

func TestRegisterStorageFailureCleansUp(t *testing.T) {
	svc, users, store := newTestRegistration()
	store.failOn = DocAddressProof // третий файл не запишется

	_, err := svc.Register(validInput())
	require.Error(t, err)

	// первые два файла убраны, пользователь не создан
	assert.Len(t, store.removed, 2)
	assert.Equal(t, 0, users.count())
}
