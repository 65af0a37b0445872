package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/Obed704/church-portal/internal/model"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (n *recordingNotifier) Send(ctx context.Context, msg Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

func TestDispatcherFanOut(t *testing.T) {
	email := &recordingNotifier{}
	sms := &recordingNotifier{err: errors.New("carrier down")}

	d := NewDispatcher()
	d.Register(model.ChannelEmail, email)
	d.Register(model.ChannelSMS, sms)

	sent, err := d.Dispatch(context.Background(), []string{"email", "sms", "push"}, Message{ID: "m1"})
	// push has no notifier and falls back to the log
	assert.Equal(t, 2, sent)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier down")
	assert.Len(t, email.sent, 1)
}

func TestDispatcherIgnoresNilNotifier(t *testing.T) {
	d := NewDispatcher()
	d.Register(model.ChannelPush, nil)

	sent, err := d.Dispatch(context.Background(), []string{"push"}, Message{})
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestValidChannel(t *testing.T) {
	assert.True(t, ValidChannel("email"))
	assert.True(t, ValidChannel("push"))
	assert.False(t, ValidChannel("pigeon"))
}

func TestRenderEventReminder(t *testing.T) {
	now := time.Date(2026, 4, 4, 10, 0, 0, 0, time.UTC)
	starts := now.Add(24 * time.Hour)
	name, phone, loc, note := "Grace", "+250788000000", "Main hall", "Bring a Bible"

	msg, err := Render(
		model.Reminder{ID: 7, Note: &note},
		model.User{ID: 3, Email: "grace@example.com", Name: &name, Phone: &phone},
		Subject{Title: "Youth Night", StartsAt: &starts, Location: &loc},
		now,
	)
	require.NoError(t, err)

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, 3, msg.UserID)
	assert.Equal(t, "grace@example.com", msg.To)
	assert.Equal(t, phone, msg.Phone)
	assert.Equal(t, "Youth Night", msg.Subject)
	assert.Contains(t, msg.Text, "1 day from now")
	assert.Contains(t, msg.Text, "Main hall")
	assert.Contains(t, msg.Text, "Bring a Bible")
	assert.Contains(t, msg.HTML, "Hello Grace")
	assert.Contains(t, msg.HTML, "<strong>Youth Night</strong>")
}

func TestRenderEscapesHTML(t *testing.T) {
	msg, err := Render(model.Reminder{}, model.User{Email: "a@b.c"},
		Subject{Title: "<script>x</script>"}, time.Now())
	require.NoError(t, err)
	assert.NotContains(t, msg.HTML, "<script>")
	assert.Equal(t, "Reminder: <script>x</script>", msg.Text)
}

type fakeToken struct {
	err error
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *fakeToken) Error() error { return t.err }

type fakePublisher struct {
	topic   string
	qos     byte
	payload []byte
	err     error
}

func (p *fakePublisher) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	p.topic, p.qos = topic, qos
	p.payload, _ = payload.([]byte)
	return &fakeToken{err: p.err}
}

func TestPushNotifierPublishesToUserTopic(t *testing.T) {
	pub := &fakePublisher{}
	n := NewPushNotifier(pub)

	err := n.Send(context.Background(), Message{ID: "m1", UserID: 42, Subject: "Choir", Text: "Practice"})
	require.NoError(t, err)
	assert.Equal(t, "portal/users/42/reminders", pub.topic)
	assert.Equal(t, byte(1), pub.qos)
	assert.JSONEq(t, `{"id":"m1","user_id":42,"subject":"Choir","text":"Practice"}`, string(pub.payload))
}

func TestPushNotifierReportsBrokerError(t *testing.T) {
	n := NewPushNotifier(&fakePublisher{err: errors.New("not connected")})
	assert.Error(t, n.Send(context.Background(), Message{UserID: 1}))
}

type fakeMessages struct {
	params *openapi.CreateMessageParams
}

func (f *fakeMessages) CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error) {
	f.params = params
	return &openapi.ApiV2010Message{}, nil
}

func TestSMSNotifier(t *testing.T) {
	api := &fakeMessages{}
	n := &SMSNotifier{api: api, from: "+15550000"}

	assert.ErrorIs(t, n.Send(context.Background(), Message{}), ErrNoRecipient)

	require.NoError(t, n.Send(context.Background(), Message{Phone: "+250788000000", Subject: "Prayer", Text: "Tonight"}))
	require.NotNil(t, api.params.To)
	assert.Equal(t, "+250788000000", *api.params.To)
	assert.Equal(t, "+15550000", *api.params.From)
	assert.Equal(t, "Prayer: Tonight", *api.params.Body)
}

func TestEmailNotifierPrepare(t *testing.T) {
	n := NewEmailNotifier("key", "Church Portal", "noreply@church.example")
	assert.ErrorIs(t, n.Send(context.Background(), Message{}), ErrNoRecipient)

	m := n.prepare(Message{To: "grace@example.com", Subject: "Youth Night", Text: "t", HTML: "<p>h</p>"})
	require.Len(t, m.Personalizations, 1)
	assert.Equal(t, "[Church Portal] Youth Night", m.Personalizations[0].Subject)
	assert.Equal(t, "grace@example.com", m.Personalizations[0].To[0].Address)
	assert.Len(t, m.Content, 2)
}
