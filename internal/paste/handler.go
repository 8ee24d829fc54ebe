package paste

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gokulvs/pastemirror/internal/assets"
)

var (
	// ErrAlreadyHandled means an earlier observer acted on the event.
	ErrAlreadyHandled = errors.New("paste already handled")
	// ErrNotAFile means items[0] is text and is left to the host.
	ErrNotAFile = errors.New("clipboard item is not a file")

	ErrNoActiveEditor   = errors.New("cannot get active editor")
	ErrNoClipboardItems = errors.New("cannot get clipboard items")
	ErrNoActiveDocument = errors.New("cannot retrieve current note")
)

// Workspace exposes what the host currently has focused.
type Workspace interface {
	ActiveEditor() (assets.Surface, bool)
	// ActiveFile returns the vault-relative path of the focused note.
	ActiveFile() (string, bool)
}

// Notifier shows short-lived messages to the user.
type Notifier interface {
	Notify(level slog.Level, msg string)
}

// Settings supplies the configured assets root at paste time.
type Settings interface {
	AssetsRootName() string
}

// Outcome describes a completed placement.
type Outcome struct {
	Dir      string
	Path     string
	Token    string
	Inserted bool
}

// Handler turns file pastes into mirrored assets plus an embed token.
type Handler struct {
	ws       Workspace
	settings Settings
	placer   *assets.Placer
	notifier Notifier
	logger   *slog.Logger
}

// NewHandler wires a Handler. A nil logger falls back to slog.Default.
func NewHandler(ws Workspace, settings Settings, placer *assets.Placer, notifier Notifier, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{ws: ws, settings: settings, placer: placer, notifier: notifier, logger: logger}
}

// Register subscribes the handler to src.
func (h *Handler) Register(src Source) (unsubscribe func()) {
	return src.OnPaste(h.HandlePaste)
}

// HandlePaste is the Observer form of Paste. Failures end here: they are
// logged and, where actionable, shown as notices.
func (h *Handler) HandlePaste(ctx context.Context, ev *Event) {
	out, err := h.Paste(ctx, ev)
	switch {
	case err == nil:
		h.logger.Debug("paste placed", "event", ev.ID, "path", out.Path, "inserted", out.Inserted)
	case errors.Is(err, ErrAlreadyHandled), errors.Is(err, ErrNotAFile):
		h.logger.Debug("paste ignored", "event", ev.ID, "reason", err)
	default:
		h.logger.Debug("paste aborted", "event", ev.ID, "error", err)
	}
}

// Paste runs the placement pipeline for ev. Steps run strictly in order;
// the first failure ends the paste without rolling back earlier steps.
func (h *Handler) Paste(ctx context.Context, ev *Event) (Outcome, error) {
	if ev.Handled() {
		return Outcome{}, ErrAlreadyHandled
	}
	logger := h.logger.With("event", ev.ID)

	surface, ok := h.ws.ActiveEditor()
	if !ok {
		h.fail(ErrNoActiveEditor)
		return Outcome{}, ErrNoActiveEditor
	}
	if len(ev.Items) == 0 {
		h.fail(ErrNoClipboardItems)
		return Outcome{}, ErrNoClipboardItems
	}
	if len(ev.Items) > 1 {
		h.notify(slog.LevelDebug, "clipboard has more than one item, using the first")
	}
	item := ev.Items[0]
	if !item.IsFile() {
		return Outcome{}, ErrNotAFile
	}
	defer ev.MarkHandled()

	cursor := surface.Cursor()

	docPath, ok := h.ws.ActiveFile()
	if !ok {
		h.fail(ErrNoActiveDocument)
		return Outcome{}, ErrNoActiveDocument
	}

	out := Outcome{Dir: assets.Resolve(h.settings.AssetsRootName(), docPath)}
	written, err := h.placer.Place(ctx, out.Dir, assets.Payload{Name: item.Name, Data: item.Data})
	if err != nil {
		logger.Error("asset placement failed", "dir", out.Dir, "error", err)
		h.notify(slog.LevelError, err.Error())
		return out, err
	}
	out.Path = written
	out.Token = assets.BuildReference(written)

	if err := assets.Insert(surface, out.Token, cursor); err != nil {
		logger.Debug("reference not inserted", "cursor", cursor.String(), "error", err)
		return out, nil
	}
	out.Inserted = true
	return out, nil
}

func (h *Handler) fail(err error) {
	h.notify(slog.LevelError, err.Error())
}

func (h *Handler) notify(level slog.Level, msg string) {
	if h.notifier != nil {
		h.notifier.Notify(level, msg)
	}
}
