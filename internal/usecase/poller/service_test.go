package poller

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homework-status-bot/internal/domain"
)

type answer struct {
	body any
	err  error
}

type fakeSource struct {
	answers    []answer
	timestamps []int64
	onCall     func()
}

func (f *fakeSource) GetAPIAnswer(_ context.Context, timestamp int64) (any, error) {
	f.timestamps = append(f.timestamps, timestamp)
	if f.onCall != nil {
		f.onCall()
	}
	if len(f.answers) == 0 {
		return map[string]any{"homeworks": []any{}}, nil
	}
	next := f.answers[0]
	if len(f.answers) > 1 {
		f.answers = f.answers[1:]
	}
	return next.body, next.err
}

type fakeNotifier struct {
	sent []string
	err  error
}

func (f *fakeNotifier) SendMessage(_ context.Context, text string) error {
	if f.err != nil {
		return &domain.NotificationDeliveryError{ChatID: "1", Err: f.err}
	}
	f.sent = append(f.sent, text)
	return nil
}

func body(t *testing.T, raw string) any {
	t.Helper()
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.UseNumber()
	var v any
	require.NoError(t, decoder.Decode(&v))
	return v
}

func newTestService(source *fakeSource, notifier *fakeNotifier) *Service {
	return NewService(source, notifier, zerolog.Nop(), WithCursor(500), WithInterval(time.Hour))
}

func TestRunOnceEmptyHomeworksUpdatesCursor(t *testing.T) {
	source := &fakeSource{answers: []answer{{body: body(t, `{"homeworks":[],"current_date":1000}`)}}}
	notifier := &fakeNotifier{}
	service := newTestService(source, notifier)

	require.NoError(t, service.RunOnce(context.Background()))

	assert.Empty(t, notifier.sent)
	assert.Equal(t, int64(1000), service.Cursor())
	assert.Equal(t, []int64{500}, source.timestamps)
}

func TestRunOnceSendsStatusChange(t *testing.T) {
	source := &fakeSource{answers: []answer{{body: body(t, `{"homeworks":[{"homework_name":"hw1","status":"approved"}],"current_date":2000}`)}}}
	notifier := &fakeNotifier{}
	service := newTestService(source, notifier)

	require.NoError(t, service.RunOnce(context.Background()))

	require.Len(t, notifier.sent, 1)
	assert.Contains(t, notifier.sent[0], "hw1")
	assert.Contains(t, notifier.sent[0], "the reviewer liked everything")
	assert.Equal(t, int64(2000), service.Cursor())
}

func TestRunOnceSendsEveryHomework(t *testing.T) {
	source := &fakeSource{answers: []answer{{body: body(t, `{"homeworks":[
		{"homework_name":"hw2","status":"rejected"},
		{"homework_name":"hw1","status":"reviewing"}
	],"current_date":2000}`)}}}
	notifier := &fakeNotifier{}
	service := newTestService(source, notifier)

	require.NoError(t, service.RunOnce(context.Background()))

	require.Len(t, notifier.sent, 2)
	assert.Contains(t, notifier.sent[0], "hw2")
	assert.Contains(t, notifier.sent[1], "hw1")
}

func TestRunOnceSkipsRepeatedHomeworkStatus(t *testing.T) {
	same := body(t, `{"homeworks":[{"homework_name":"hw1","status":"reviewing"}],"current_date":2000}`)
	changed := body(t, `{"homeworks":[{"homework_name":"hw1","status":"approved"}],"current_date":3000}`)
	source := &fakeSource{answers: []answer{{body: same}, {body: same}, {body: changed}}}
	notifier := &fakeNotifier{}
	service := newTestService(source, notifier)

	for i := 0; i < 3; i++ {
		require.NoError(t, service.RunOnce(context.Background()))
	}

	require.Len(t, notifier.sent, 2)
	assert.Contains(t, notifier.sent[1], "the reviewer liked everything")
	assert.Equal(t, int64(3000), service.Cursor())
}

func TestRunOnceHTTPErrorReportedOnce(t *testing.T) {
	failure := &domain.HTTPRequestError{URL: "https://example.test/?from_date=500", StatusCode: 503}
	source := &fakeSource{answers: []answer{{err: failure}}}
	notifier := &fakeNotifier{}
	service := newTestService(source, notifier)

	err := service.RunOnce(context.Background())
	require.ErrorAs(t, err, new(*domain.HTTPRequestError))
	err = service.RunOnce(context.Background())
	require.Error(t, err)

	require.Len(t, notifier.sent, 1)
	assert.Contains(t, notifier.sent[0], "503")
	assert.Equal(t, int64(500), service.Cursor())
}

func TestRunOnceSuccessResetsErrorDedup(t *testing.T) {
	failure := &domain.HTTPRequestError{URL: "https://example.test/", StatusCode: 503}
	source := &fakeSource{answers: []answer{
		{err: failure},
		{body: body(t, `{"homeworks":[]}`)},
		{err: failure},
	}}
	notifier := &fakeNotifier{}
	service := newTestService(source, notifier)

	_ = service.RunOnce(context.Background())
	require.NoError(t, service.RunOnce(context.Background()))
	_ = service.RunOnce(context.Background())

	assert.Len(t, notifier.sent, 2)
}

func TestRunOnceDifferentErrorsAreReported(t *testing.T) {
	source := &fakeSource{answers: []answer{
		{err: &domain.HTTPRequestError{URL: "https://example.test/", StatusCode: 503}},
		{body: body(t, `{"current_date":1}`)},
	}}
	notifier := &fakeNotifier{}
	service := newTestService(source, notifier)

	_ = service.RunOnce(context.Background())
	err := service.RunOnce(context.Background())
	require.ErrorIs(t, err, domain.ErrMissingHomeworks)

	require.Len(t, notifier.sent, 2)
	assert.Contains(t, notifier.sent[1], "no homeworks key")
}

func TestRunOnceParseErrorKeepsCursor(t *testing.T) {
	source := &fakeSource{answers: []answer{{body: body(t, `{"homeworks":[{"homework_name":"hw1","status":"lost"}],"current_date":2000}`)}}}
	notifier := &fakeNotifier{}
	service := newTestService(source, notifier)

	err := service.RunOnce(context.Background())
	require.ErrorIs(t, err, domain.ErrUnknownStatus)

	require.Len(t, notifier.sent, 1)
	assert.True(t, strings.HasPrefix(notifier.sent[0], "Program failure: "))
	assert.Equal(t, int64(500), service.Cursor())
}

func TestRunOnceRetriesUndeliveredError(t *testing.T) {
	failure := &domain.HTTPRequestError{URL: "https://example.test/", StatusCode: 503}
	source := &fakeSource{answers: []answer{{err: failure}}}
	notifier := &fakeNotifier{err: errors.New("telegram is down")}
	service := newTestService(source, notifier)

	_ = service.RunOnce(context.Background())
	assert.Empty(t, notifier.sent)

	notifier.err = nil
	_ = service.RunOnce(context.Background())
	assert.Len(t, notifier.sent, 1)
}

func TestRunOnceDeliveryFailureBecomesCycleError(t *testing.T) {
	source := &fakeSource{answers: []answer{{body: body(t, `{"homeworks":[{"homework_name":"hw1","status":"approved"}],"current_date":2000}`)}}}
	notifier := &fakeNotifier{err: errors.New("telegram is down")}
	service := newTestService(source, notifier)

	err := service.RunOnce(context.Background())
	require.ErrorAs(t, err, new(*domain.NotificationDeliveryError))
	assert.Equal(t, int64(500), service.Cursor())
}

func TestHealthTracksCycles(t *testing.T) {
	source := &fakeSource{answers: []answer{
		{body: body(t, `{"homeworks":[],"current_date":1000}`)},
		{err: &domain.HTTPRequestError{URL: "https://example.test/", StatusCode: 500}},
	}}
	service := newTestService(source, &fakeNotifier{})

	_ = service.RunOnce(context.Background())
	health := service.Health()
	assert.Equal(t, int64(1), health.Cycles)
	assert.Equal(t, int64(1000), health.Cursor)
	assert.Empty(t, health.LastError)
	assert.False(t, health.LastSuccessAt.IsZero())

	_ = service.RunOnce(context.Background())
	health = service.Health()
	assert.Equal(t, int64(2), health.Cycles)
	assert.Contains(t, health.LastError, "500")
}

func TestNewServiceDefaultsCursorToNow(t *testing.T) {
	fixed := time.Unix(1700000000, 0)
	service := NewService(&fakeSource{}, &fakeNotifier{}, zerolog.Nop(), WithClock(func() time.Time { return fixed }))
	assert.Equal(t, int64(1700000000), service.Cursor())
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	source := &fakeSource{onCall: cancel}
	service := newTestService(source, &fakeNotifier{})

	done := make(chan struct{})
	go func() {
		service.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
	assert.Len(t, source.timestamps, 1)
}
