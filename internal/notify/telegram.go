package notify

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Domenick1991/fieldbooking/internal/calendar"
	"github.com/Domenick1991/fieldbooking/internal/domain"
	"github.com/Domenick1991/fieldbooking/internal/kafka"
)

type TelegramConfig struct {
	BotToken     string
	ChatIDs      []string
	DashboardURL string
	APIBaseURL   string
}

// Sender fans booking notifications out to every configured Telegram chat.
type Sender struct {
	cfg    TelegramConfig
	client *http.Client
	logger *slog.Logger

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
}

func NewSender(cfg TelegramConfig, client *http.Client, logger *slog.Logger) *Sender {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "https://api.telegram.org"
	}
	return &Sender{cfg: cfg, client: client, logger: logger}
}

// Enabled is false when no token or chat is configured; Send is then a no-op.
func (s *Sender) Enabled() bool {
	return s.cfg.BotToken != "" && len(s.cfg.ChatIDs) > 0
}

// botAPI connects on first use. The client verifies the token with getMe, and
// a failed attempt is retried on the next Send.
func (s *Sender) botAPI() (*tgbotapi.BotAPI, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bot != nil {
		return s.bot, nil
	}
	bot, err := tgbotapi.NewBotAPIWithClient(s.cfg.BotToken, s.cfg.APIBaseURL+"/bot%s/%s", s.client)
	if err != nil {
		return nil, fmt.Errorf("telegram connect: %w", err)
	}
	s.bot = bot
	return bot, nil
}

// Send delivers event to all chats. Per-chat failures are logged and never
// returned; Send only fails for an unusable event.
func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if !s.Enabled() {
		return nil
	}
	if event.Type != kafka.EventBookingCreated {
		s.logger.Debug("skipping notification", "type", event.Type, "booking_id", event.BookingID)
		return nil
	}

	text, err := BuildBookingMessage(event)
	if err != nil {
		return err
	}

	bot, err := s.botAPI()
	if err != nil {
		s.logger.Error("telegram notify failed", "booking_id", event.BookingID, "error", err)
		return nil
	}

	delivered := 0
	for _, chatID := range s.cfg.ChatIDs {
		// The bot client has no context support; stop between chats instead.
		if ctx.Err() != nil {
			s.logger.Warn("telegram notify interrupted", "booking_id", event.BookingID, "error", ctx.Err())
			break
		}
		if _, err := bot.Send(s.buildMessage(chatID, text)); err != nil {
			s.logger.Error("telegram notify failed", "chat_id", chatID, "booking_id", event.BookingID, "error", err)
			continue
		}
		delivered++
	}
	s.logger.Info("booking notification sent", "booking_id", event.BookingID, "delivered", delivered, "chats", len(s.cfg.ChatIDs))
	return nil
}

// buildMessage addresses numeric chat IDs directly and anything else
// (e.g. "@channel") by username.
func (s *Sender) buildMessage(chatID, text string) tgbotapi.MessageConfig {
	var msg tgbotapi.MessageConfig
	if id, err := strconv.ParseInt(chatID, 10, 64); err == nil {
		msg = tgbotapi.NewMessage(id, text)
	} else {
		msg = tgbotapi.NewMessageToChannel(chatID, text)
	}
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if s.cfg.DashboardURL != "" {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL("Open bookings", s.cfg.DashboardURL)),
		)
	}
	return msg
}

// BuildBookingMessage renders event as Telegram HTML. All user text is escaped.
func BuildBookingMessage(event kafka.BookingEvent) (string, error) {
	day, err := calendar.ParseDay(event.Date)
	if err != nil {
		return "", fmt.Errorf("booking %s: %w", event.BookingID, err)
	}

	status := domain.BookingStatus(event.Status).Label()
	phone := event.CustomerPhone
	if phone == "" {
		phone = "-"
	}

	lines := []string{"<b>📢 New booking</b>"}
	if event.Source != "" {
		lines = append(lines, "<i>Source: "+html.EscapeString(event.Source)+"</i>")
	}
	lines = append(lines,
		"",
		"<b>Booking details</b>",
		"• <b>Code:</b> "+html.EscapeString(ShortCode(event.BookingID)),
		"• <b>Field:</b> "+html.EscapeString(event.FieldName),
		"• <b>Date:</b> "+html.EscapeString(FormatDay(day)),
		fmt.Sprintf("• <b>Time:</b> %s - %s (%d h)", html.EscapeString(event.StartTime), html.EscapeString(event.EndTime), event.Duration),
		"• <b>Total:</b> "+html.EscapeString(FormatRupiah(event.TotalPrice)),
		"• <b>Status:</b> "+html.EscapeString(status),
		"",
		"<b>Customer</b>",
		"• <b>Name:</b> "+html.EscapeString(event.CustomerName),
		"• <b>Phone:</b> "+html.EscapeString(phone),
	)
	if event.Notes != "" {
		notes := strings.ReplaceAll(html.EscapeString(event.Notes), "\n", "<br>")
		lines = append(lines, "• <b>Notes:</b> "+notes)
	}
	return strings.Join(lines, "\n"), nil
}

// ShortCode is the last eight characters of id, upper-cased.
func ShortCode(id string) string {
	if len(id) > 8 {
		id = id[len(id)-8:]
	}
	return strings.ToUpper(id)
}

func FormatDay(d calendar.Day) string {
	return d.Time().Format("Monday, 02 January 2006")
}

// FormatRupiah renders an amount like "Rp 150.000".
func FormatRupiah(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + "Rp " + b.String()
}
