package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"github.com/dkoval/chatik/internal/bus"
	"github.com/dkoval/chatik/internal/config"
	"github.com/dkoval/chatik/internal/poll"
	"github.com/dkoval/chatik/internal/remote"
	"github.com/dkoval/chatik/internal/session"
	"github.com/dkoval/chatik/internal/store"
	"github.com/dkoval/chatik/internal/tui/keys"
	"github.com/dkoval/chatik/internal/tui/model"
	"github.com/dkoval/chatik/internal/tui/views"
)

const flashDuration = 5 * time.Second

// App is the TUI shell. It owns the page router, the per-screen
// pollers and the glue between views and the view model.
type App struct {
	app      *tview.Application
	pages    *tview.Pages
	mainTabs *tview.Pages
	vm       *model.ViewModel
	client   *remote.Client
	sessions *session.Manager
	machine  *session.Machine
	events   *bus.Bus
	db       *store.DB
	logger   *zap.Logger
	registry *keys.Registry

	statusBar    *views.StatusBar
	loginView    *views.LoginView
	profileView  *views.ProfileView
	registerForm *views.RegisterForm
	chatList     *views.ConversationList
	chatWin      *views.ChatWindow
	contactList  *views.ContactList
	contactForm  *views.ContactForm
	searchView   *views.SearchView
	settings     *views.SettingsView

	chatsPoller  *poll.Poller
	threadPoller *poll.Poller

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp wires the shell together. Nothing touches the network until
// Run.
func NewApp(client *remote.Client, sessions *session.Manager, machine *session.Machine, events *bus.Bus, db *store.DB, cfg *config.Config, logger *zap.Logger) *App {
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		app:      tview.NewApplication(),
		pages:    tview.NewPages(),
		mainTabs: tview.NewPages(),
		vm:       model.NewViewModel(client, sessions),
		client:   client,
		sessions: sessions,
		machine:  machine,
		events:   events,
		db:       db,
		logger:   logger,
		registry: keys.NewRegistry(),

		statusBar:    views.NewStatusBar(),
		loginView:    views.NewLoginView(),
		profileView:  views.NewProfileView(),
		registerForm: views.NewRegisterForm(),
		chatList:     views.NewConversationList(),
		chatWin:      views.NewChatWindow(),
		contactList:  views.NewContactList(),
		contactForm:  views.NewContactForm(),
		searchView:   views.NewSearchView(),
		settings:     views.NewSettingsView(),

		ctx:    ctx,
		cancel: cancel,
	}

	interval := cfg.PollInterval()
	a.chatsPoller = poll.New("chats", interval, a.fetchChats, logger)
	a.threadPoller = poll.New("thread", interval, a.fetchThread, logger)

	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()

	return a
}

func (a *App) setupBindings() {
	a.registry.AddGlobal("quit", &keys.Action{
		Rune: 'q', Key: tcell.KeyRune,
		Description: "q:quit", Visible: true,
		Handler: func() { a.app.Stop() },
	})

	a.registry.AddView("chats", "open", &keys.Action{
		Key:         tcell.KeyEnter,
		Description: "enter:open", Visible: true,
		Handler: func() {
			if conv, ok := a.chatList.Selected(); ok {
				a.openConversation(conv)
			}
		},
	})
	a.registry.AddView("contacts", "chat", &keys.Action{
		Key:         tcell.KeyEnter,
		Description: "enter:chat", Visible: true,
		Handler: func() {
			if contact, ok := a.contactList.Selected(); ok {
				a.openConversation(remote.Conversation{
					OtherUserID: contact.UserID,
					Username:    contact.Username,
					DisplayName: contact.Label(),
				})
			}
		},
	})
	a.registry.AddView("contacts", "add", &keys.Action{
		Rune: 'a', Key: tcell.KeyRune,
		Description: "a:add", Visible: true,
		Handler: func() {
			a.contactForm.Reset()
			a.pages.SwitchToPage("addcontact")
		},
	})
	a.registry.AddView("contacts", "refresh", &keys.Action{
		Rune: 'r', Key: tcell.KeyRune,
		Description: "r:refresh", Visible: true,
		Handler: func() { a.refreshContacts() },
	})
	a.registry.AddView("search", "add", &keys.Action{
		Rune: 'a', Key: tcell.KeyRune,
		Description: "a:add contact", Visible: true,
		Handler: func() {
			if hit, ok := a.searchView.Selected(); ok {
				a.addFromSearch(hit)
			}
		},
	})
	a.registry.AddView("search", "chat", &keys.Action{
		Key:         tcell.KeyEnter,
		Description: "enter:chat", Visible: true,
		Handler: func() {
			if hit, ok := a.searchView.Selected(); ok {
				a.openConversation(remote.Conversation{
					OtherUserID: hit.UserID,
					Username:    hit.Username,
					DisplayName: hit.Name(),
				})
			}
		},
	})
}

func (a *App) setupCallbacks() {
	a.loginView.SetOnSubmit(func(username, password string) {
		go a.doLogin(username, password)
	})

	a.profileView.SetOnSubmit(func(first, last, display, avatarURL string) {
		go a.doUpdateProfile(first, last, display, avatarURL)
	})

	a.registerForm.SetOnSubmit(func(username, password string, friendOfAdmin bool) {
		go a.doRegister(username, password, friendOfAdmin)
	})
	a.registerForm.SetOnCancel(func() {
		a.pages.SwitchToPage("main")
		a.switchTab("settings")
	})

	a.contactForm.SetOnSubmit(func(username, customName string) {
		go a.doAddContact(username, customName)
	})
	a.contactForm.SetOnCancel(func() {
		a.pages.SwitchToPage("main")
		a.switchTab("contacts")
	})

	a.chatWin.SetOnSend(func(text string) {
		go func() {
			if err := a.vm.Send(a.ctx, text); err != nil {
				a.vm.Flash.SetError("Send failed: "+err.Error(), flashDuration)
			}
			a.app.QueueUpdateDraw(func() {
				a.updateThread()
				a.updateFlash()
			})
		}()
	})
	a.chatWin.SetOnTyping(func() {
		go func() {
			if err := a.vm.NotifyTyping(a.ctx); err != nil {
				a.logger.Warn("set typing failed", zap.Error(err))
			}
		}()
	})

	a.searchView.SetOnQuery(func(query string) {
		go func() {
			if err := a.vm.Search(a.ctx, query); err != nil {
				a.vm.Flash.SetError("Search failed: "+err.Error(), flashDuration)
				a.app.QueueUpdateDraw(a.updateFlash)
				return
			}
			a.app.QueueUpdateDraw(func() {
				a.searchView.Update(a.vm.GetSearchResults())
				a.app.SetFocus(a.searchView.Results())
			})
		}()
	})

	a.settings.SetCallbacks(
		func() { // edit profile
			a.profileView.Prefill(a.sessions.Current())
			a.pages.SwitchToPage("profile")
		},
		func() { a.toggleHideStatus() },
		func() { // register (admins only)
			a.registerForm.Reset()
			a.pages.SwitchToPage("register")
		},
		func() { go a.doLogout() },
	)
}

func (a *App) setupLayout() {
	a.mainTabs.AddPage("chats", a.chatList, true, true)
	a.mainTabs.AddPage("contacts", a.contactList, true, false)
	a.mainTabs.AddPage("search", a.searchView, true, false)
	a.mainTabs.AddPage("settings", a.settings, true, false)

	main := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.mainTabs, 0, 1, true)

	a.pages.AddPage("login", a.loginView, true, true)
	a.pages.AddPage("profile", a.profileView, true, false)
	a.pages.AddPage("register", a.registerForm, true, false)
	a.pages.AddPage("addcontact", a.contactForm, true, false)
	a.pages.AddPage("main", main, true, false)
	a.pages.AddPage("chat", a.chatWin, true, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	a.app.SetRoot(root, true)
	a.app.SetInputCapture(a.handleKey)
}

func (a *App) handleKey(event *tcell.EventKey) *tcell.EventKey {
	page, _ := a.pages.GetFrontPage()

	if event.Key() == tcell.KeyEscape {
		switch page {
		case "chat":
			a.closeConversation()
			return nil
		case "addcontact":
			a.pages.SwitchToPage("main")
			a.switchTab("contacts")
			return nil
		case "register":
			a.pages.SwitchToPage("main")
			a.switchTab("settings")
			return nil
		case "profile":
			// Esc only backs out of profile edits, not initial setup.
			if a.machine.Current() == session.Active {
				a.pages.SwitchToPage("main")
				a.switchTab("settings")
				return nil
			}
		}
	}

	// Text inputs see every key.
	if _, ok := a.app.GetFocus().(*tview.InputField); ok {
		return event
	}

	if page == "main" {
		if event.Key() == tcell.KeyRune {
			switch event.Rune() {
			case '1':
				a.switchTab("chats")
				return nil
			case '2':
				a.switchTab("contacts")
				return nil
			case '3':
				a.switchTab("search")
				return nil
			case '4':
				a.switchTab("settings")
				return nil
			}
		}
		tab, _ := a.mainTabs.GetFrontPage()
		if a.registry.HandleEvent(tab, event) {
			return nil
		}
		return event
	}

	if a.registry.HandleEvent(page, event) {
		return nil
	}
	return event
}

// switchTab changes the active main tab and remembers it so the next
// session opens where this one left off.
func (a *App) switchTab(tab string) {
	a.mainTabs.SwitchToPage(tab)
	a.statusBar.SetHints(strings.Join(a.registry.Hints(tab), " "))

	switch tab {
	case "chats":
		a.app.SetFocus(a.chatList)
	case "contacts":
		a.app.SetFocus(a.contactList)
		a.refreshContacts()
	case "search":
		a.app.SetFocus(a.searchView.Input())
	case "settings":
		a.settings.Update(a.sessions.Current(), a.vm.HideStatus())
		a.app.SetFocus(a.settings)
	}

	if err := a.db.SetPreference(store.PrefActiveTab, tab); err != nil {
		a.logger.Warn("saving active tab failed", zap.Error(err))
	}
}

// route shows the page matching the session state. Called on startup
// and whenever the state machine transitions.
func (a *App) route() {
	switch a.machine.Current() {
	case session.LoggedOut:
		a.chatsPoller.Stop()
		a.threadPoller.Stop()
		a.vm.CloseChat()
		a.loginView.Reset()
		a.statusBar.SetUser("")
		a.statusBar.SetHints("")
		a.pages.SwitchToPage("login")

	case session.ProfileIncomplete:
		a.profileView.Prefill(a.sessions.Current())
		a.pages.SwitchToPage("profile")

	case session.Active:
		id := a.sessions.Current()
		if id != nil {
			name := id.DisplayName
			if name == "" {
				name = id.Username
			}
			a.statusBar.SetUser(name + " (@" + id.Username + ")")
		}
		a.pages.SwitchToPage("main")

		tab, err := a.db.GetPreference(store.PrefActiveTab, "chats")
		if err != nil {
			tab = "chats"
		}
		a.switchTab(tab)
		a.chatsPoller.Start(a.ctx)
	}
}

func (a *App) doLogin(username, password string) {
	id, err := a.client.Auth.Login(a.ctx, username, password)
	if err != nil {
		a.logger.Warn("login failed", zap.String("username", username), zap.Error(err))
		a.app.QueueUpdateDraw(func() { a.loginView.ShowError(loginErrorText(err)) })
		return
	}
	if err := a.sessions.Save(id); err != nil {
		a.app.QueueUpdateDraw(func() { a.loginView.ShowError(err.Error()) })
		return
	}
	a.logger.Info("logged in", zap.String("username", id.Username))
	if err := a.machine.Transition(session.StateFor(id)); err != nil {
		a.logger.Error("session transition failed", zap.Error(err))
	}
}

func loginErrorText(err error) string {
	var apiErr *remote.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "cannot reach the server, try again"
}

func (a *App) doUpdateProfile(first, last, display, avatarURL string) {
	current := a.sessions.Current()
	if current == nil {
		return
	}
	id, err := a.client.Auth.UpdateProfile(a.ctx, current.ID, first, last, display, avatarURL)
	if err != nil {
		a.app.QueueUpdateDraw(func() { a.profileView.ShowError(err.Error()) })
		return
	}
	if err := a.sessions.Save(id); err != nil {
		a.app.QueueUpdateDraw(func() { a.profileView.ShowError(err.Error()) })
		return
	}
	if err := a.machine.Transition(session.StateFor(id)); err != nil {
		a.logger.Error("session transition failed", zap.Error(err))
	}
	// Editing from settings stays in the Active state, so the bus
	// publishes nothing. Route explicitly.
	a.app.QueueUpdateDraw(a.route)
}

func (a *App) doRegister(username, password string, friendOfAdmin bool) {
	current := a.sessions.Current()
	if current == nil {
		return
	}
	_, err := a.client.Auth.Register(a.ctx, current.ID, username, password, friendOfAdmin)
	if err != nil {
		a.app.QueueUpdateDraw(func() { a.registerForm.ShowError(err.Error()) })
		return
	}
	a.vm.Flash.Set("User "+username+" created", flashDuration)
	a.app.QueueUpdateDraw(func() {
		a.pages.SwitchToPage("main")
		a.switchTab("settings")
		a.updateFlash()
	})
}

func (a *App) doAddContact(username, customName string) {
	if err := a.vm.AddContactByUsername(a.ctx, username, customName); err != nil {
		a.app.QueueUpdateDraw(func() { a.contactForm.ShowError(err.Error()) })
		return
	}
	a.vm.Flash.Set("Contact added", flashDuration)
	a.app.QueueUpdateDraw(func() {
		a.pages.SwitchToPage("main")
		a.switchTab("contacts")
		a.updateFlash()
	})
}

func (a *App) addFromSearch(hit remote.SearchResult) {
	if hit.IsContact {
		return
	}
	go func() {
		if err := a.vm.AddContactFromSearch(a.ctx, hit.UserID); err != nil {
			a.vm.Flash.SetError("Add failed: "+err.Error(), flashDuration)
			a.app.QueueUpdateDraw(a.updateFlash)
			return
		}
		// Re-run the query so the saved marker flips.
		_ = a.vm.Search(a.ctx, a.searchView.Input().GetText())
		a.vm.Flash.Set("Contact added", flashDuration)
		a.app.QueueUpdateDraw(func() {
			a.searchView.Update(a.vm.GetSearchResults())
			a.updateFlash()
		})
	}()
}

// toggleHideStatus runs on the event loop; only the preference write
// goes to a background goroutine.
func (a *App) toggleHideStatus() {
	hide := a.vm.ToggleHideStatus()
	a.settings.Update(a.sessions.Current(), hide)
	value := "false"
	if hide {
		value = "true"
	}
	go func() {
		if err := a.db.SetPreference(store.PrefHideOnlineStatus, value); err != nil {
			a.logger.Warn("saving preference failed", zap.Error(err))
		}
	}()
}

func (a *App) doLogout() {
	if err := a.sessions.Clear(); err != nil {
		a.logger.Error("clearing session failed", zap.Error(err))
	}
	if err := a.machine.Transition(session.LoggedOut); err != nil {
		a.logger.Error("session transition failed", zap.Error(err))
	}
}

func (a *App) openConversation(conv remote.Conversation) {
	go func() {
		if err := a.vm.OpenChat(a.ctx, conv); err != nil {
			a.vm.Flash.SetError("Open failed: "+err.Error(), flashDuration)
			a.app.QueueUpdateDraw(a.updateFlash)
			return
		}
		a.app.QueueUpdateDraw(func() {
			active := a.vm.GetActiveChat()
			if active == nil {
				return
			}
			name := active.DisplayName
			if name == "" {
				name = active.Username
			}
			a.chatWin.Reset()
			a.chatWin.SetPeer(name)
			a.updateThread()
			a.pages.SwitchToPage("chat")
			a.app.SetFocus(a.chatWin.Composer)
		})
		a.threadPoller.Start(a.ctx)
	}()
}

func (a *App) closeConversation() {
	a.threadPoller.Stop()
	a.vm.CloseChat()
	a.pages.SwitchToPage("main")
	a.switchTab("chats")
}

// fetchChats is the chat list poller body.
func (a *App) fetchChats(ctx context.Context) error {
	err := a.vm.LoadConversations(ctx)
	if ctx.Err() != nil {
		return nil
	}
	a.app.QueueUpdateDraw(func() {
		page, _ := a.pages.GetFrontPage()
		tab, _ := a.mainTabs.GetFrontPage()
		if page == "main" && tab == "chats" {
			a.chatList.Update(a.vm.GetConversations())
		}
		a.updateFlash()
	})
	return err
}

// fetchThread is the open-conversation poller body.
func (a *App) fetchThread(ctx context.Context) error {
	msgErr := a.vm.LoadMessages(ctx)
	typErr := a.vm.LoadTyping(ctx)
	if ctx.Err() != nil {
		return nil
	}
	a.app.QueueUpdateDraw(func() {
		if page, _ := a.pages.GetFrontPage(); page == "chat" {
			a.updateThread()
			a.updateFlash()
		}
	})
	if msgErr != nil {
		return msgErr
	}
	return typErr
}

func (a *App) updateThread() {
	var selfID int64
	if id := a.sessions.Current(); id != nil {
		selfID = id.ID
	}
	a.chatWin.Update(a.vm.GetMessages(), selfID)
	a.chatWin.SetTyping(a.vm.GetPeerTyping())
}

func (a *App) updateFlash() {
	msg, isErr := a.vm.Flash.Get()
	a.statusBar.SetFlash(msg, isErr)
}

func (a *App) refreshContacts() {
	go func() {
		if err := a.vm.LoadContacts(a.ctx); err != nil {
			a.vm.Flash.SetError("Contacts failed: "+err.Error(), flashDuration)
			a.app.QueueUpdateDraw(a.updateFlash)
			return
		}
		a.app.QueueUpdateDraw(func() {
			page, _ := a.pages.GetFrontPage()
			tab, _ := a.mainTabs.GetFrontPage()
			if page == "main" && tab == "contacts" {
				a.contactList.Update(a.vm.GetContacts())
			}
		})
	}()
}

// Run restores the saved session, routes to the right screen and
// blocks on the terminal event loop.
func (a *App) Run() error {
	if err := a.sessions.Load(); err != nil {
		a.logger.Warn("restoring session failed", zap.Error(err))
	}
	if hide, err := a.db.GetPreference(store.PrefHideOnlineStatus, "false"); err == nil {
		a.vm.SetHideStatus(hide == "true")
	}
	if err := a.machine.Transition(session.StateFor(a.sessions.Current())); err != nil {
		a.logger.Error("session transition failed", zap.Error(err))
	}
	if current := a.sessions.Current(); current != nil {
		// Refresh the restored identity in the background; profile
		// edits made from another device show up without re-login.
		go func() {
			id, err := a.client.Auth.GetUser(a.ctx, current.ID)
			if err != nil {
				a.logger.Warn("identity refresh failed", zap.Error(err))
				return
			}
			if err := a.sessions.Save(id); err != nil {
				a.logger.Warn("saving refreshed identity failed", zap.Error(err))
			}
		}()
	}

	ch, unsub := a.events.Subscribe(8)
	go func() {
		defer unsub()
		for {
			select {
			case ev := <-ch:
				if ev.Kind == bus.KindStateChanged {
					a.app.QueueUpdateDraw(a.route)
				}
			case <-a.ctx.Done():
				return
			}
		}
	}()

	a.route()
	return a.app.Run()
}

// Stop shuts the shell down.
func (a *App) Stop() {
	a.cancel()
	a.chatsPoller.Stop()
	a.threadPoller.Stop()
	a.app.Stop()
}
