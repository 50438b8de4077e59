package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zhasqoldau/internal/models"
)

const testIIN = "990101350123"

func newTestOtpService(t *testing.T) (*OtpService, *memOtpStore, *memUserStore, *fakeSender, *fakeClock) {
	t.Helper()
	store := newMemOtpStore()
	users := newMemUserStore(&models.User{
		IIN:       testIIN,
		FirstName: "Айдос",
		LastName:  "Сейтказы",
		Phone:     "+77010000001",
		IsActive:  true,
	})
	sender := &fakeSender{}
	clock := newFakeClock()

	svc := NewOtpService(store, users, sender,
		5*time.Minute,  // ttl
		30*time.Second, // cooldown
		3,              // max resends
		5,              // max attempts
		time.Second,
	)
	svc.nowFunc = clock.Now
	return svc, store, users, sender, clock
}

func TestOtpSendUnknownIIN(t *testing.T) {
	svc, _, _, sender, _ := newTestOtpService(t)

	err := svc.Send("000000000000")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, 0, sender.Calls())
}

func TestOtpSendCooldown(t *testing.T) {
	svc, _, _, sender, clock := newTestOtpService(t)

	require.NoError(t, svc.Send(testIIN))
	assert.Equal(t, 1, sender.Calls())

	// повтор внутри кулдауна
	err := svc.Send(testIIN)
	assert.ErrorIs(t, err, ErrOtpCooldown)
	assert.Equal(t, 1, sender.Calls())

	// после кулдауна — проходит
	clock.Advance(31 * time.Second)
	require.NoError(t, svc.Send(testIIN))
	assert.Equal(t, 2, sender.Calls())
}

func TestOtpSendMaxResends(t *testing.T) {
	svc, _, _, _, clock := newTestOtpService(t)
	svc.MaxResends = 2

	require.NoError(t, svc.Send(testIIN))
	clock.Advance(31 * time.Second)
	require.NoError(t, svc.Send(testIIN))
	clock.Advance(31 * time.Second)

	err := svc.Send(testIIN)
	assert.ErrorIs(t, err, ErrOtpMaxResends)
}

func TestOtpSendMaxResendsResetAfterExpiry(t *testing.T) {
	svc, _, _, _, clock := newTestOtpService(t)
	svc.MaxResends = 2

	require.NoError(t, svc.Send(testIIN))
	clock.Advance(31 * time.Second)
	require.NoError(t, svc.Send(testIIN))
	clock.Advance(31 * time.Second)
	require.ErrorIs(t, svc.Send(testIIN), ErrOtpMaxResends)

	// цепочка протухла — новая отправка стартует с нуля
	clock.Advance(5 * time.Minute)
	require.NoError(t, svc.Send(testIIN))
}

func TestOtpSendDeliveryFailureRollsBack(t *testing.T) {
	svc, store, _, sender, _ := newTestOtpService(t)
	sender.err = assert.AnError

	err := svc.Send(testIIN)
	assert.ErrorIs(t, err, ErrOtpDelivery)
	assert.Equal(t, 0, store.count(), "запись должна быть откатана")

	// фейл доставки не включает кулдаун и не ест слот повтора
	sender.err = nil
	assert.NoError(t, svc.Send(testIIN))
}

func TestOtpVerifyHappyPath(t *testing.T) {
	svc, _, _, sender, _ := newTestOtpService(t)

	require.NoError(t, svc.Send(testIIN))
	code := sender.LastCode()
	require.Len(t, code, 6)

	user, err := svc.Verify(testIIN, code)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, testIIN, user.IIN)

	// одноразовость: тот же код второй раз не работает
	_, err = svc.Verify(testIIN, code)
	assert.ErrorIs(t, err, ErrOtpNotFound)
}

func TestOtpVerifyNoCode(t *testing.T) {
	svc, _, _, _, _ := newTestOtpService(t)

	_, err := svc.Verify(testIIN, "123456")
	assert.ErrorIs(t, err, ErrOtpNotFound)
}

func TestOtpVerifyExpired(t *testing.T) {
	svc, _, _, sender, clock := newTestOtpService(t)

	require.NoError(t, svc.Send(testIIN))
	code := sender.LastCode()

	clock.Advance(5*time.Minute + time.Second)

	_, err := svc.Verify(testIIN, code)
	assert.ErrorIs(t, err, ErrOtpExpired)

	// запись инвалидирована: повтор с тем же кодом тоже мимо
	_, err = svc.Verify(testIIN, code)
	assert.ErrorIs(t, err, ErrOtpNotFound)
}

func TestOtpVerifyWrongCode(t *testing.T) {
	svc, _, _, sender, _ := newTestOtpService(t)

	require.NoError(t, svc.Send(testIIN))
	code := sender.LastCode()

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	_, err := svc.Verify(testIIN, wrong)
	assert.ErrorIs(t, err, ErrOtpInvalid)

	// правильный код после неудачной попытки ещё работает
	user, err := svc.Verify(testIIN, code)
	require.NoError(t, err)
	assert.Equal(t, testIIN, user.IIN)
}

func TestOtpVerifyMaxAttempts(t *testing.T) {
	svc, _, _, sender, _ := newTestOtpService(t)
	svc.MaxAttempts = 3

	require.NoError(t, svc.Send(testIIN))
	code := sender.LastCode()

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	for i := 0; i < 3; i++ {
		_, err := svc.Verify(testIIN, wrong)
		assert.ErrorIs(t, err, ErrOtpInvalid)
	}

	// лимит попыток исчерпан, запись инвалидирована
	_, err := svc.Verify(testIIN, code)
	assert.ErrorIs(t, err, ErrOtpMaxAttempts)

	_, err = svc.Verify(testIIN, code)
	assert.ErrorIs(t, err, ErrOtpNotFound)
}

func TestOtpEachSendIssuesNewCode(t *testing.T) {
	svc, _, _, sender, clock := newTestOtpService(t)

	require.NoError(t, svc.Send(testIIN))
	first := sender.LastCode()

	clock.Advance(31 * time.Second)
	require.NoError(t, svc.Send(testIIN))
	second := sender.LastCode()

	// старый код сверяется с последней записью и почти наверняка не пройдёт;
	// свежий код работает всегда
	user, err := svc.Verify(testIIN, second)
	require.NoError(t, err)
	assert.Equal(t, testIIN, user.IIN)
	_ = first
}
