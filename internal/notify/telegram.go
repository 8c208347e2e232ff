package notify

import (
	"encoding/json"
	"fmt"

	"homestay/internal/config"
	"homestay/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Sender is the slice of the bot API the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

func NewBot(cfg config.TelegramConfig) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	bot.Debug = cfg.Debug
	return bot, nil
}

// TelegramNotifier pushes booking lifecycle messages to the operations chat.
type TelegramNotifier struct {
	bot    Sender
	chatID int64
	logger *zerolog.Logger
}

func NewTelegramNotifier(bot Sender, chatID int64, logger *zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
		logger: logger,
	}
}

// Subscribe attaches the notifier to booking lifecycle events.
func (n *TelegramNotifier) Subscribe(bus *events.EventBus) {
	bus.Subscribe(events.EventBookingCreated, n.handleEvent("New booking"))
	bus.Subscribe(events.EventBookingCancelled, n.handleEvent("Booking cancelled"))
	bus.Subscribe(events.EventBookingCompleted, n.handleEvent("Booking completed"))
}

func (n *TelegramNotifier) handleEvent(title string) events.EventHandler {
	return func(event *events.Event) error {
		var payload events.BookingEventPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			n.logger.Error().Err(err).Str("event_type", event.Type).Msg("failed to decode booking event")
			return err
		}

		text := fmt.Sprintf(
			"%s\n%s\n%s — %s, %d guest(s)\nGuest: %s\nTotal: %d\nRef: %s",
			title,
			payload.ListingTitle,
			payload.CheckIn.Format("2006-01-02"),
			payload.CheckOut.Format("2006-01-02"),
			payload.Guests,
			payload.GuestName,
			payload.TotalPrice,
			payload.Reference,
		)

		if _, err := n.bot.Send(tgbotapi.NewMessage(n.chatID, text)); err != nil {
			n.logger.Error().Err(err).Int64("booking_id", payload.BookingID).Msg("failed to send telegram notification")
			return err
		}
		return nil
	}
}
