package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Domenick1991/fieldbooking/internal/calendar"
	"github.com/Domenick1991/fieldbooking/internal/kafka"
	"github.com/Domenick1991/fieldbooking/internal/obs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() kafka.BookingEvent {
	return kafka.BookingEvent{
		Type:         kafka.EventBookingCreated,
		Source:       kafka.SourcePublic,
		BookingID:    "5f0c2a7e-1111-2222-3333-abcdef123456",
		FieldName:    "Court <A>",
		CustomerName: "Budi & Sons",
		Date:         "2024-03-15",
		StartTime:    "09:00",
		EndTime:      "11:00",
		Duration:     2,
		TotalPrice:   300000,
		Status:       "PENDING",
		Notes:        "bring\nballs",
	}
}

func TestBuildBookingMessage(t *testing.T) {
	msg, err := BuildBookingMessage(sampleEvent())
	require.NoError(t, err)

	assert.Contains(t, msg, "<i>Source: public</i>")
	assert.Contains(t, msg, "Court &lt;A&gt;")
	assert.Contains(t, msg, "Budi &amp; Sons")
	assert.Contains(t, msg, "Friday, 15 March 2024")
	assert.Contains(t, msg, "09:00 - 11:00 (2 h)")
	assert.Contains(t, msg, "Rp 300.000")
	assert.Contains(t, msg, "Awaiting confirmation")
	assert.Contains(t, msg, "<b>Code:</b> EF123456")
	assert.Contains(t, msg, "<b>Phone:</b> -")
	assert.Contains(t, msg, "bring<br>balls")
}

func TestBuildBookingMessage_BadDate(t *testing.T) {
	ev := sampleEvent()
	ev.Date = "15/03/2024"
	_, err := BuildBookingMessage(ev)
	assert.Error(t, err)
}

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "Rp 0", FormatRupiah(0))
	assert.Equal(t, "Rp 999", FormatRupiah(999))
	assert.Equal(t, "Rp 1.000", FormatRupiah(1000))
	assert.Equal(t, "Rp 150.000", FormatRupiah(150000))
	assert.Equal(t, "Rp 1.234.567", FormatRupiah(1234567))
	assert.Equal(t, "-Rp 5.000", FormatRupiah(-5000))
}

func TestShortCodeAndFormatDay(t *testing.T) {
	assert.Equal(t, "ABC", ShortCode("abc"))
	assert.Equal(t, "EF123456", ShortCode("abcdef123456"))
	assert.Equal(t, "Monday, 11 March 2024", FormatDay(calendar.Day{Year: 2024, Month: 3, Dom: 11}))
}

// telegramServer fakes the Bot API: getMe succeeds, sendMessage records the
// form-encoded chat_id and rejects the chat named "bad".
func telegramServer(t *testing.T, sent func(form url.Values)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/bottoken/getMe":
			fmt.Fprint(w, `{"ok":true,"result":{"id":42,"is_bot":true,"first_name":"fieldbot","username":"fieldbot"}}`)
		case "/bottoken/sendMessage":
			require.NoError(t, r.ParseForm())
			sent(r.PostForm)
			if r.PostForm.Get("chat_id") == "bad" {
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprint(w, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`)
				return
			}
			fmt.Fprint(w, `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":1,"type":"private"}}}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestSender_FansOutAndSwallowsPerChatFailures(t *testing.T) {
	var (
		mu    sync.Mutex
		chats []string
	)
	srv := telegramServer(t, func(form url.Values) {
		assert.Equal(t, "HTML", form.Get("parse_mode"))
		assert.Equal(t, "true", form.Get("disable_web_page_preview"))
		assert.Contains(t, form.Get("reply_markup"), "https://example.test/dashboard/bookings")
		assert.Contains(t, form.Get("text"), "Court &lt;A&gt;")

		mu.Lock()
		chats = append(chats, form.Get("chat_id"))
		mu.Unlock()
	})
	defer srv.Close()

	s := NewSender(TelegramConfig{
		BotToken:     "token",
		ChatIDs:      []string{"1", "bad", "2"},
		DashboardURL: "https://example.test/dashboard/bookings",
		APIBaseURL:   srv.URL + "/",
	}, srv.Client(), obs.Discard())

	require.NoError(t, s.Send(context.Background(), sampleEvent()))
	assert.Equal(t, []string{"1", "bad", "2"}, chats)

	// The connected bot is reused.
	require.NoError(t, s.Send(context.Background(), sampleEvent()))
	assert.Len(t, chats, 6)
}

func TestSender_UnreachableAPIIsLoggedNotReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"ok":false,"error_code":401,"description":"Unauthorized"}`)
	}))
	defer srv.Close()

	s := NewSender(TelegramConfig{BotToken: "token", ChatIDs: []string{"1"}, APIBaseURL: srv.URL}, srv.Client(), obs.Discard())
	assert.NoError(t, s.Send(context.Background(), sampleEvent()))
}

func TestSender_DisabledOrIrrelevantEvents(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	disabled := NewSender(TelegramConfig{APIBaseURL: srv.URL}, nil, obs.Discard())
	assert.False(t, disabled.Enabled())
	assert.NoError(t, disabled.Send(context.Background(), sampleEvent()))

	enabled := NewSender(TelegramConfig{BotToken: "t", ChatIDs: []string{"1"}, APIBaseURL: srv.URL}, nil, obs.Discard())
	ev := sampleEvent()
	ev.Type = kafka.EventBookingExpired
	assert.NoError(t, enabled.Send(context.Background(), ev))

	assert.Zero(t, calls)
}

func TestBuildMessage(t *testing.T) {
	plain := NewSender(TelegramConfig{BotToken: "t", ChatIDs: []string{"1"}}, nil, obs.Discard())

	msg := plain.buildMessage("-100123", "hello")
	assert.Equal(t, int64(-100123), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
	assert.True(t, msg.DisableWebPagePreview)
	assert.Nil(t, msg.ReplyMarkup)

	channel := plain.buildMessage("@field_ops", "hello")
	assert.Equal(t, "@field_ops", channel.ChannelUsername)
	assert.Zero(t, channel.ChatID)

	withDashboard := NewSender(TelegramConfig{DashboardURL: "https://example.test/d"}, nil, obs.Discard())
	markup, ok := withDashboard.buildMessage("1", "x").ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 1)
	assert.Equal(t, "Open bookings", markup.InlineKeyboard[0][0].Text)
	require.NotNil(t, markup.InlineKeyboard[0][0].URL)
	assert.Equal(t, "https://example.test/d", *markup.InlineKeyboard[0][0].URL)
}
