package whatsapp

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"go.mau.fi/whatsmeow"
	waE2E "go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	waTypes "go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
)

// Service wraps whatsmeow clients so the shop can receive order summaries
// directly on its own WhatsApp. The checkout page works without it (the
// wa.me hand-off link needs no session); when a device is paired the order
// is additionally pushed to the configured JID.
type Service struct {
	clients    map[string]*whatsmeow.Client
	clientsMux sync.RWMutex
	store      *sqlstore.Container
	notifyJid  string

	// latest QR code captured from whatsmeow events; the admin frontend
	// renders the QR image from this raw string.
	qr     string
	qrLock sync.RWMutex
}

// New creates the service on top of the application's existing database
// connection so whatsmeow tables live in the same database.
func New(sqlDB *sql.DB, dbType string, notifyJid string) (*Service, error) {
	driver := "sqlite3"
	switch strings.ToLower(strings.TrimSpace(dbType)) {
	case "postgres", "postgresql":
		driver = "postgres"
	}
	if driver == "sqlite3" {
		// some sqlite builds need the pragma per connection before
		// sqlstore migrations can run
		if _, err := sqlDB.ExecContext(context.Background(), "PRAGMA foreign_keys = ON;"); err != nil {
			zap.L().Warn("whatsapp: unable to enable sqlite foreign_keys pragma", zap.Error(err))
		}
	}

	container := sqlstore.NewWithDB(sqlDB, driver, nil)
	if err := container.Upgrade(context.Background()); err != nil {
		zap.L().Error("whatsapp: sqlstore upgrade failed", zap.Error(err), zap.String("driver", driver))
		return nil, fmt.Errorf("sqlstore upgrade failed: %w", err)
	}

	svc := &Service{
		clients:   make(map[string]*whatsmeow.Client),
		store:     container,
		notifyJid: notifyJid,
	}

	devices, err := container.GetAllDevices(context.Background())
	if err != nil {
		zap.L().Error("whatsapp: failed to list stored devices", zap.Error(err))
		return nil, fmt.Errorf("sqlstore GetAllDevices failed: %w", err)
	}
	for _, d := range devices {
		svc.registerClient(whatsmeow.NewClient(d, nil))
	}
	if len(devices) == 0 {
		// no paired device yet; register a fresh one so ConnectAsync can
		// emit a QR for the shop owner to scan
		svc.registerClient(whatsmeow.NewClient(container.NewDevice(), nil))
	}

	setGlobalService(svc)
	return svc, nil
}

// Start connects all registered clients and blocks until ctx is canceled.
func (s *Service) Start(ctx context.Context) error {
	zap.L().Info("whatsapp: starting clients")
	s.clientsMux.RLock()
	clients := make([]*whatsmeow.Client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.clientsMux.RUnlock()

	for _, c := range clients {
		go func(cli *whatsmeow.Client) {
			if err := cli.Connect(); err != nil {
				zap.L().Warn("whatsapp: client connect failed", zap.Error(err))
			}
		}(c)
	}

	<-ctx.Done()
	zap.L().Info("whatsapp: shutting down clients")
	s.clientsMux.RLock()
	for _, c := range s.clients {
		c.Disconnect()
	}
	s.clientsMux.RUnlock()
	return nil
}

// ConnectAsync triggers a non-blocking connect attempt, typically to request
// a fresh QR. Connect errors are logged.
func (s *Service) ConnectAsync() {
	go func() {
		s.clientsMux.RLock()
		defer s.clientsMux.RUnlock()
		for key, c := range s.clients {
			if c == nil || c.Store == nil {
				continue
			}
			go func(cli *whatsmeow.Client, k string) {
				if err := cli.Connect(); err != nil {
					zap.L().Warn("whatsapp: client connect failed", zap.Error(err), zap.String("key", k))
				}
			}(c, key)
		}
	}()
}

// Connected reports whether at least one client holds a live connection.
func (s *Service) Connected() bool {
	s.clientsMux.RLock()
	defer s.clientsMux.RUnlock()
	for _, c := range s.clients {
		if c != nil && c.IsConnected() {
			return true
		}
	}
	return false
}

// GetQRCode returns the latest QR code string, or "" when none is pending.
func (s *Service) GetQRCode() string {
	s.qrLock.RLock()
	defer s.qrLock.RUnlock()
	return s.qr
}

// SendText sends a plain text message to the given jid
// (e.g. "5586999990000@s.whatsapp.net") from any connected client.
func (s *Service) SendText(ctx context.Context, jid string, text string) error {
	if s == nil {
		return fmt.Errorf("whatsapp service not initialized")
	}
	parsed, err := waTypes.ParseJID(jid)
	if err != nil {
		zap.L().Warn("whatsapp: invalid jid", zap.Error(err), zap.String("jid", jid))
		return err
	}

	var cli *whatsmeow.Client
	s.clientsMux.RLock()
	for _, c := range s.clients {
		if c.IsConnected() {
			cli = c
			break
		}
	}
	s.clientsMux.RUnlock()
	if cli == nil {
		return fmt.Errorf("no whatsapp client available")
	}

	msg := &waE2E.Message{Conversation: proto.String(text)}
	if _, err := cli.SendMessage(ctx, parsed, msg); err != nil {
		zap.L().Warn("whatsapp: send message failed", zap.Error(err))
		return err
	}
	zap.L().Info("whatsapp: message sent", zap.String("jid", jid))
	return nil
}

// NotifyOrder pushes the checkout summary to the shop's configured JID.
// A missing configuration is not an error: the wa.me hand-off already
// covers the order.
func (s *Service) NotifyOrder(ctx context.Context, text string) error {
	if s == nil || s.notifyJid == "" {
		return nil
	}
	return s.SendText(ctx, s.notifyJid, text)
}

func (s *Service) registerClient(client *whatsmeow.Client) {
	if client == nil {
		return
	}
	jid := client.Store.GetJID().String()
	if jid == "" {
		jid = fmt.Sprintf("pending:%d", client.Store.RegistrationID)
	}
	zap.L().Info("whatsapp: registering client",
		zap.String("key", jid),
		zap.Bool("has_jid", client.Store.GetJID().String() != ""))

	client.AddEventHandler(func(evt interface{}) {
		switch e := evt.(type) {
		case *events.QR:
			if len(e.Codes) == 0 {
				return
			}
			s.qrLock.Lock()
			s.qr = e.Codes[0]
			s.qrLock.Unlock()
			zap.L().Info("whatsapp: qr code event received", zap.String("key", jid))
		case *events.PairSuccess:
			s.qrLock.Lock()
			s.qr = ""
			s.qrLock.Unlock()
			zap.L().Info("whatsapp: device paired", zap.String("jid", e.ID.String()))
		case *events.Connected:
			zap.L().Info("whatsapp: connected", zap.String("key", jid))
		case *events.LoggedOut:
			zap.L().Warn("whatsapp: logged out", zap.String("key", jid))
		}
	})

	s.clientsMux.Lock()
	s.clients[jid] = client
	s.clientsMux.Unlock()
}

// package-level reference so handlers can reach the running service
var (
	globalSvc     *Service
	globalSvcLock sync.RWMutex
)

func setGlobalService(s *Service) {
	globalSvcLock.Lock()
	defer globalSvcLock.Unlock()
	globalSvc = s
}

// Get returns the running service, or nil when WhatsApp is disabled.
func Get() *Service {
	globalSvcLock.RLock()
	defer globalSvcLock.RUnlock()
	return globalSvc
}
