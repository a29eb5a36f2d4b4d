package stub

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Router builds the gin engine serving all three services: the auth
// service on /auth, the messaging service on /messages and the search
// service on /search.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/auth", s.handleAuth)
	r.GET("/auth", s.handleAuthGet)
	r.GET("/messages", s.handleMessagesGet)
	r.POST("/messages", s.handleMessagesPost)
	r.GET("/search", s.handleSearch)
	r.POST("/search", s.handleAddContactByID)
	return r
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

type authRequest struct {
	Action          string `json:"action"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	AdminID         int64  `json:"admin_id"`
	UserID          int64  `json:"user_id"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	DisplayName     string `json:"display_name"`
	AvatarURL       string `json:"avatar_url"`
	IsFriendOfAdmin bool   `json:"is_friend_of_admin"`
}

func (s *Server) handleAuth(c *gin.Context) {
	var req authRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch req.Action {
	case "login":
		u := s.userByName(req.Username)
		if u == nil || u.passwordHash != hashPassword(req.Password) {
			fail(c, http.StatusUnauthorized, "invalid username or password")
			return
		}
		u.lastSeen = s.now()
		c.JSON(http.StatusOK, gin.H{"success": true, "user": s.identityFor(u)})

	case "register":
		admin, ok := s.users[req.AdminID]
		if !ok || !admin.isAdmin {
			fail(c, http.StatusForbidden, "only admins can register users")
			return
		}
		if req.Username == "" || req.Password == "" {
			fail(c, http.StatusBadRequest, "username and password are required")
			return
		}
		if s.userByName(req.Username) != nil {
			fail(c, http.StatusConflict, "username already taken")
			return
		}
		u := &user{
			id:               s.nextUserID,
			username:         req.Username,
			passwordHash:     hashPassword(req.Password),
			isFriendOfAdmin:  req.IsFriendOfAdmin,
			statusVisibility: VisibilityEveryone,
		}
		s.nextUserID++
		s.users[u.id] = u
		s.logger.Info("user registered", zap.String("username", u.username))
		c.JSON(http.StatusOK, gin.H{"success": true, "user": s.identityFor(u)})

	case "update_profile":
		u, ok := s.users[req.UserID]
		if !ok {
			fail(c, http.StatusNotFound, "user not found")
			return
		}
		u.firstName = req.FirstName
		u.lastName = req.LastName
		u.displayName = req.DisplayName
		u.avatarURL = req.AvatarURL
		c.JSON(http.StatusOK, gin.H{"success": true, "user": s.identityFor(u)})

	default:
		fail(c, http.StatusBadRequest, "unknown action: "+req.Action)
	}
}

func (s *Server) handleAuthGet(c *gin.Context) {
	userID, ok := queryInt64(c, "user_id")
	if !ok {
		fail(c, http.StatusBadRequest, "user_id is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, found := s.users[userID]
	if !found {
		fail(c, http.StatusNotFound, "user not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": s.identityFor(u)})
}

func queryInt64(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Query(name), 10, 64)
	return v, err == nil
}

func (s *Server) handleMessagesGet(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch c.Query("action") {
	case "get_chats":
		userID, ok := queryInt64(c, "user_id")
		if !ok {
			fail(c, http.StatusBadRequest, "user_id is required")
			return
		}
		// The chat list poll doubles as the presence heartbeat.
		if u, found := s.users[userID]; found {
			u.lastSeen = s.now()
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "chats": s.chatsFor(userID)})

	case "get_messages":
		chatID, ok := queryInt64(c, "chat_id")
		if !ok {
			fail(c, http.StatusBadRequest, "chat_id is required")
			return
		}
		msgs := make([]any, 0)
		for _, m := range s.messages {
			if m.chatID == chatID {
				msgs = append(msgs, s.messageView(m))
			}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "messages": msgs})

	case "is_typing":
		chatID, ok1 := queryInt64(c, "chat_id")
		userID, ok2 := queryInt64(c, "user_id")
		if !ok1 || !ok2 {
			fail(c, http.StatusBadRequest, "chat_id and user_id are required")
			return
		}
		typing := false
		for uid, at := range s.typing[chatID] {
			if uid != userID && s.now().Sub(at) < typingWindow {
				typing = true
			}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "is_typing": typing})

	case "get_contacts":
		userID, ok := queryInt64(c, "user_id")
		if !ok {
			fail(c, http.StatusBadRequest, "user_id is required")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "contacts": s.contactsFor(userID)})

	default:
		fail(c, http.StatusBadRequest, "unknown action: "+c.Query("action"))
	}
}

type messagesRequest struct {
	Action          string `json:"action"`
	User1ID         int64  `json:"user1_id"`
	User2ID         int64  `json:"user2_id"`
	ChatID          int64  `json:"chat_id"`
	SenderID        int64  `json:"sender_id"`
	UserID          int64  `json:"user_id"`
	Content         string `json:"content"`
	MessageType     string `json:"message_type"`
	ContactUsername string `json:"contact_username"`
	CustomName      string `json:"custom_name"`
}

func (s *Server) handleMessagesPost(c *gin.Context) {
	var req messagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch req.Action {
	case "create_chat":
		if req.User1ID == req.User2ID {
			fail(c, http.StatusBadRequest, "cannot chat with yourself")
			return
		}
		if existing := s.chatBetween(req.User1ID, req.User2ID); existing != nil {
			c.JSON(http.StatusOK, gin.H{"success": true, "chat_id": existing.id})
			return
		}
		ch := &chat{id: s.nextChatID, user1: req.User1ID, user2: req.User2ID}
		s.nextChatID++
		s.chats = append(s.chats, ch)
		c.JSON(http.StatusOK, gin.H{"success": true, "chat_id": ch.id})

	case "send_message":
		var found bool
		for _, ch := range s.chats {
			if ch.id == req.ChatID {
				found = true
				break
			}
		}
		if !found {
			fail(c, http.StatusNotFound, "chat not found")
			return
		}
		if strings.TrimSpace(req.Content) == "" {
			fail(c, http.StatusBadRequest, "message content is empty")
			return
		}
		m := &message{
			id:          s.nextMessageID,
			chatID:      req.ChatID,
			senderID:    req.SenderID,
			content:     req.Content,
			messageType: req.MessageType,
			createdAt:   s.now(),
		}
		if m.messageType == "" {
			m.messageType = "text"
		}
		s.nextMessageID++
		s.messages = append(s.messages, m)
		// Sending a message clears the sender's typing flag.
		delete(s.typing[req.ChatID], req.SenderID)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": s.messageView(m)})

	case "set_typing":
		if s.typing[req.ChatID] == nil {
			s.typing[req.ChatID] = make(map[int64]time.Time)
		}
		s.typing[req.ChatID][req.UserID] = s.now()
		c.JSON(http.StatusOK, gin.H{"success": true})

	case "add_contact":
		target := s.userByName(req.ContactUsername)
		if target == nil {
			fail(c, http.StatusNotFound, "user not found")
			return
		}
		if target.id == req.UserID {
			fail(c, http.StatusBadRequest, "cannot add yourself")
			return
		}
		if !s.hasContact(req.UserID, target.id) {
			s.contacts[req.UserID] = append(s.contacts[req.UserID], &contact{
				id:         s.nextContactID,
				targetID:   target.id,
				customName: req.CustomName,
				addedAt:    s.now(),
			})
			s.nextContactID++
		}
		c.JSON(http.StatusOK, gin.H{"success": true})

	default:
		fail(c, http.StatusBadRequest, "unknown action: "+req.Action)
	}
}

func (s *Server) handleSearch(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	userID, ok := queryInt64(c, "user_id")
	if query == "" || !ok {
		fail(c, http.StatusBadRequest, "q and user_id are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// The search service omits the success flag; status carries it.
	c.JSON(http.StatusOK, gin.H{"users": s.searchUsers(query, userID)})
}

type addContactRequest struct {
	UserID       int64 `json:"user_id"`
	TargetUserID int64 `json:"target_user_id"`
}

func (s *Server) handleAddContactByID(c *gin.Context) {
	var req addContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[req.TargetUserID]; !ok {
		fail(c, http.StatusNotFound, "user not found")
		return
	}
	if req.TargetUserID == req.UserID {
		fail(c, http.StatusBadRequest, "cannot add yourself")
		return
	}
	if !s.hasContact(req.UserID, req.TargetUserID) {
		s.contacts[req.UserID] = append(s.contacts[req.UserID], &contact{
			id:       s.nextContactID,
			targetID: req.TargetUserID,
			addedAt:  s.now(),
		})
		s.nextContactID++
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
