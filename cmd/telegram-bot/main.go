// telegram-bot lets users paste race text blocks in a chat and get the
// parse report back. Blocks are collected per chat: /race, /roster and
// /odds select which block the next pasted message fills, /parse runs
// the extractors and /save stores the result.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/keibalab/keibanote/internal/calculator"
	"github.com/keibalab/keibanote/internal/parser/odds"
	"github.com/keibalab/keibanote/internal/parser/raceinfo"
	"github.com/keibalab/keibanote/internal/parser/roster"
	pkgconfig "github.com/keibalab/keibanote/internal/pkg/config"
	"github.com/keibalab/keibanote/internal/pkg/logging"
	"github.com/keibalab/keibanote/internal/pkg/models"
	"github.com/keibalab/keibanote/internal/pkg/storage"
	"github.com/keibalab/keibanote/internal/pkg/validation"
	"github.com/keibalab/keibanote/internal/report"
)

const defaultConfigPath = "configs/example.yaml"

// session collects the pasted blocks of one chat between commands.
type session struct {
	pending string // which block the next pasted message fills
	race    string
	roster  string
	odds    string

	// last successful parse, kept for /save
	lastInfo   *models.RaceInfo
	lastHorses []models.HorseRecord
	lastOdds   []models.OddsRecord
	lastClean  bool
}

type bot struct {
	api      *tgbotapi.BotAPI
	cfg      *pkgconfig.Config
	store    storage.RaceStorage
	mu       sync.Mutex
	sessions map[int64]*session
}

func main() {
	if err := run(); err != nil {
		slog.Error("telegram bot failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	flag.StringVar(&configPath, "config", defaultConfigPath, "Path to config file")
	flag.Parse()

	appConfig, err := pkgconfig.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logging.Setup(appConfig.Logging, "telegram-bot")

	token := appConfig.Telegram.Token
	if token == "" {
		token = os.Getenv("TELEGRAM_BOT_TOKEN")
	}
	if token == "" {
		return fmt.Errorf("telegram bot token is required: set telegram.token in config or TELEGRAM_BOT_TOKEN env var")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}
	api.Debug = false
	slog.Info("authorized", "account", api.Self.UserName)

	store, err := storage.NewSQLiteStorage(&appConfig.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	b := &bot{
		api:      api,
		cfg:      appConfig,
		store:    store,
		sessions: make(map[int64]*session),
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = appConfig.Telegram.UpdateTimeout

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("received shutdown signal, stopping bot")
		cancel()
	}()

	updates := api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			slog.Info("telegram bot stopped")
			return nil
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			if !b.allowed(update.Message.From.ID) {
				b.reply(update.Message.Chat.ID, "Access denied. You are not authorized to use this bot.")
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *bot) allowed(userID int64) bool {
	ids := b.cfg.Telegram.AllowedUserIDs
	if len(ids) == 0 {
		return true
	}
	for _, id := range ids {
		if id == userID {
			return true
		}
	}
	return false
}

func (b *bot) session(chatID int64) *session {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.sessions[chatID]
	if !ok {
		s = &session{}
		b.sessions[chatID] = s
	}
	return s
}

func (b *bot) reply(chatID int64, text string) {
	// Telegram caps messages at 4096 characters.
	if r := []rune(text); len(r) > 4000 {
		text = string(r[:4000]) + "\n... (truncated)"
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		slog.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}

func (b *bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	text := strings.TrimSpace(message.Text)
	if text == "" {
		return
	}
	chatID := message.Chat.ID
	s := b.session(chatID)

	if strings.HasPrefix(text, "/") {
		parts := strings.Fields(text)
		switch strings.ToLower(parts[0]) {
		case "/start", "/help":
			b.reply(chatID, helpText)
		case "/race":
			s.pending = "race"
			b.reply(chatID, "Paste the race header block as your next message.")
		case "/roster":
			s.pending = "roster"
			b.reply(chatID, "Paste the horse roster block as your next message.")
		case "/odds":
			s.pending = "odds"
			b.reply(chatID, "Paste the odds block as your next message.")
		case "/parse":
			b.handleParse(chatID, s)
		case "/save":
			b.handleSave(ctx, chatID, s)
		case "/list":
			b.handleList(ctx, chatID)
		case "/score":
			if len(parts) < 2 {
				b.reply(chatID, "Usage: /score <race-id>")
				return
			}
			b.handleScore(ctx, chatID, strings.Join(parts[1:], " "))
		case "/clear":
			*s = session{}
			b.reply(chatID, "Session cleared.")
		default:
			b.reply(chatID, "Unknown command. Use /help to see available commands.")
		}
		return
	}

	// Plain text fills the pending block, if one was selected.
	switch s.pending {
	case "race":
		s.race = message.Text
		b.reply(chatID, "Race block stored. Use /roster, /odds or /parse.")
	case "roster":
		s.roster = message.Text
		b.reply(chatID, "Roster block stored. Use /race, /odds or /parse.")
	case "odds":
		s.odds = message.Text
		b.reply(chatID, "Odds block stored. Use /race, /roster or /parse.")
	default:
		b.reply(chatID, "Select a block first with /race, /roster or /odds, then paste the text.")
		return
	}
	s.pending = ""
}

func (b *bot) handleParse(chatID int64, s *session) {
	if s.race == "" && s.roster == "" && s.odds == "" {
		b.reply(chatID, "Nothing to parse yet. Paste blocks with /race, /roster and /odds first.")
		return
	}

	parserCfg := b.cfg.Parser
	raceRes := raceinfo.Extract(s.race, parserCfg)
	rosterRes := roster.Extract(s.roster, parserCfg)
	oddsRes := odds.Extract(s.odds, parserCfg)
	validRes := validation.Validate(rosterRes.Horses, oddsRes.Odds)

	rep := report.Generate([]models.ExtractionResult{
		raceRes.ExtractionResult,
		rosterRes.ExtractionResult,
		oddsRes.ExtractionResult,
		validRes,
	})

	s.lastInfo = raceRes.Info
	s.lastHorses = rosterRes.Horses
	s.lastOdds = oddsRes.Odds
	s.lastClean = rep.TotalErrors == 0 && raceRes.Info != nil

	b.reply(chatID, report.RenderText(rep))
	if s.lastClean {
		b.reply(chatID, "Parse is clean. Use /save to store this race.")
	}
}

func (b *bot) handleSave(ctx context.Context, chatID int64, s *session) {
	if !s.lastClean || s.lastInfo == nil {
		b.reply(chatID, "Nothing to save. Run /parse first and fix any reported errors.")
		return
	}
	id := models.CanonicalRaceID(s.lastInfo.Venue, s.lastInfo.Date, s.lastInfo.RaceNumber)
	race := &storage.StoredRace{
		ID:        id,
		Info:      *s.lastInfo,
		Horses:    s.lastHorses,
		Odds:      s.lastOdds,
		CreatedAt: time.Now().UTC(),
	}
	saveCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := b.store.SaveRace(saveCtx, race); err != nil {
		slog.Error("failed to save race", "race_id", id, "error", err)
		b.reply(chatID, "Failed to save race: "+err.Error())
		return
	}
	b.reply(chatID, "Saved as "+id)
}

func (b *bot) handleList(ctx context.Context, chatID int64) {
	listCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	ids, err := b.store.ListRaceIDs(listCtx)
	if err != nil {
		slog.Error("failed to list races", "error", err)
		b.reply(chatID, "Failed to list races: "+err.Error())
		return
	}
	if len(ids) == 0 {
		b.reply(chatID, "No stored races.")
		return
	}
	b.reply(chatID, "Stored races:\n"+strings.Join(ids, "\n"))
}

func (b *bot) handleScore(ctx context.Context, chatID int64, raceID string) {
	getCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	race, err := b.store.GetRace(getCtx, raceID)
	if err != nil {
		b.reply(chatID, "Failed to load race: "+err.Error())
		return
	}

	preds := calculator.NewScorer(b.cfg.Scoring).Score(race)
	var builder strings.Builder
	fmt.Fprintf(&builder, "%s %s (%d horses)\n", race.Info.Venue, race.Info.Title, len(race.Horses))
	for _, p := range preds {
		fmt.Fprintf(&builder, "%d. #%d %s score=%.3f odds=%.1f\n", p.Rank, p.HorseNumber, p.Name, p.Score, p.WinOdds)
	}
	b.reply(chatID, builder.String())
}

const helpText = `keibanote bot

Paste race text blocks and get a parse report back.

Commands:
/race - paste the race header block next
/roster - paste the horse roster block next
/odds - paste the odds block next
/parse - run the extractors over the pasted blocks
/save - store the last clean parse
/list - list stored race IDs
/score <race-id> - rank the horses of a stored race
/clear - discard the current session
/help - show this message`
