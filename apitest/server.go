// Package apitest provides an in-memory stand-in for the food-delivery
// platform backend, close enough for client tests: the same routes, the same
// error envelope, the same role gating, and a working notification hub. It
// is test tooling, not a server implementation.
package apitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"food-delivery-client/models"
	"food-delivery-client/statemachine"
)

var jwtSecret = []byte("food_delivery_test_secret")

type claims struct {
	UserID   string          `json:"user_id"`
	UserType models.UserType `json:"user_type"`
	jwt.RegisteredClaims
}

// Server is the fake platform. All state is in memory and protected by one
// mutex; request counts are recorded per route so tests can assert that a
// call did (or did not) happen.
type Server struct {
	srv      *httptest.Server
	upgrader websocket.Upgrader

	mu          sync.Mutex
	users       map[string]models.User       // by id
	restaurants map[string]models.Restaurant // by id
	menus       map[string][]models.MenuItem // by restaurant id
	orders      map[string]models.Order      // by id
	conns       map[string]*wsConn           // by "{role}_{userID}"
	requests    map[string]int               // by "METHOD /route/pattern"
}

type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// New starts the fake platform. Callers own Close.
func New() *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		users:       make(map[string]models.User),
		restaurants: make(map[string]models.Restaurant),
		menus:       make(map[string][]models.MenuItem),
		orders:      make(map[string]models.Order),
		conns:       make(map[string]*wsConn),
		requests:    make(map[string]int),
		upgrader:    websocket.Upgrader{},
	}

	r := gin.New()
	r.Use(s.countRequests())

	api := r.Group("/api")
	{
		api.POST("/auth/register", s.register)
		api.POST("/auth/login", s.login)
		api.GET("/restaurants", s.listRestaurants)
		api.GET("/restaurants/:id/menu", s.getMenu)
	}

	auth := r.Group("/api")
	auth.Use(s.authRequired())
	{
		auth.POST("/restaurants", s.createRestaurant)
		auth.POST("/restaurants/:id/menu", s.addMenuItem)
		auth.GET("/orders", s.listOrders)
		auth.POST("/orders", s.placeOrder)
		auth.POST("/orders/:id/assign-driver", s.assignDriver)
		auth.PUT("/orders/:id/status", s.updateOrderStatus)
		auth.POST("/drivers/location", s.reportLocation)
		auth.GET("/analytics", s.analytics)
	}

	r.GET("/ws/:client_id", s.handleWS)

	s.srv = httptest.NewServer(r)
	return s
}

// URL is the platform origin (http://...); pass it to config.BackendURL.
func (s *Server) URL() string { return s.srv.URL }

// Close shuts the fake down, dropping any open notification connections.
func (s *Server) Close() {
	s.mu.Lock()
	for _, c := range s.conns {
		c.conn.Close()
	}
	s.conns = make(map[string]*wsConn)
	s.mu.Unlock()
	s.srv.Close()
}

// RequestCount returns how many requests hit a route, e.g.
// RequestCount("POST", "/api/orders").
func (s *Server) RequestCount(method, route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[method+" "+route]
}

// TokenFor mints a platform-shaped token for a user, for tests that build a
// session without going through login.
func (s *Server) TokenFor(user models.User) string {
	c := claims{
		UserID:   user.ID,
		UserType: user.UserType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(jwtSecret)
	if err != nil {
		panic(err)
	}
	return token
}

// ── seeding ────────────────────────────────────────────────────────────────

// SeedUser registers a user directly, filling in an id when absent.
func (s *Server) SeedUser(user models.User) models.User {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.IsActive = true
	s.mu.Lock()
	s.users[user.ID] = user
	s.mu.Unlock()
	return user
}

// SeedRestaurant inserts a restaurant directly.
func (s *Server) SeedRestaurant(restaurant models.Restaurant) models.Restaurant {
	if restaurant.ID == "" {
		restaurant.ID = uuid.New().String()
	}
	restaurant.IsActive = true
	s.mu.Lock()
	s.restaurants[restaurant.ID] = restaurant
	s.mu.Unlock()
	return restaurant
}

// SeedMenuItem inserts a menu item directly.
func (s *Server) SeedMenuItem(restaurantID string, item models.MenuItem) models.MenuItem {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.RestaurantID = restaurantID
	item.IsAvailable = true
	s.mu.Lock()
	s.menus[restaurantID] = append(s.menus[restaurantID], item)
	s.mu.Unlock()
	return item
}

// SeedOrder inserts an order directly.
func (s *Server) SeedOrder(order models.Order) models.Order {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	s.mu.Lock()
	s.orders[order.ID] = order
	s.mu.Unlock()
	return order
}

// Order returns a stored order by id.
func (s *Server) Order(id string) (models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	return o, ok
}

// ── middleware ─────────────────────────────────────────────────────────────

func (s *Server) countRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		s.requests[c.Request.Method+" "+c.FullPath()]++
		s.mu.Unlock()
		c.Next()
	}
}

func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")
		cl := &claims{}
		token, err := jwt.ParseWithClaims(tokenStr, cl, func(t *jwt.Token) (any, error) {
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token"})
			return
		}
		s.mu.Lock()
		user, ok := s.users[cl.UserID]
		s.mu.Unlock()
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "User not found"})
			return
		}
		c.Set("user", user)
		c.Next()
	}
}

func currentUser(c *gin.Context) models.User {
	return c.MustGet("user").(models.User)
}

// ── auth ───────────────────────────────────────────────────────────────────

func (s *Server) register(c *gin.Context) {
	var req models.UserCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	user := models.User{
		ID:        uuid.New().String(),
		Email:     req.Email,
		Name:      req.Name,
		Phone:     req.Phone,
		UserType:  req.UserType,
		Location:  req.Location,
		Address:   req.Address,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.users[user.ID] = user
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"user": user, "token": s.TokenFor(user)})
}

func (s *Server) login(c *gin.Context) {
	var req struct {
		Email    string          `json:"email"`
		UserType models.UserType `json:"user_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == req.Email && user.UserType == req.UserType {
			c.JSON(http.StatusOK, gin.H{"user": user, "token": s.TokenFor(user)})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
}

// ── restaurants ────────────────────────────────────────────────────────────

func (s *Server) listRestaurants(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	restaurants := make([]models.Restaurant, 0, len(s.restaurants))
	for _, r := range s.restaurants {
		restaurants = append(restaurants, r)
	}
	c.JSON(http.StatusOK, restaurants)
}

func (s *Server) getMenu(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	menu := s.menus[c.Param("id")]
	if menu == nil {
		menu = []models.MenuItem{}
	}
	c.JSON(http.StatusOK, menu)
}

func (s *Server) createRestaurant(c *gin.Context) {
	user := currentUser(c)
	if user.UserType != models.TypeRestaurant {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Only restaurant owners can create restaurants"})
		return
	}
	var req models.RestaurantCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	restaurant := models.Restaurant{
		ID:                    uuid.New().String(),
		Name:                  req.Name,
		Description:           req.Description,
		Address:               req.Address,
		Location:              req.Location,
		CuisineType:           req.CuisineType,
		OwnerID:               user.ID,
		Phone:                 req.Phone,
		IsActive:              true,
		DeliveryFee:           req.DeliveryFee,
		MinOrder:              req.MinOrder,
		EstimatedDeliveryTime: req.EstimatedDeliveryTime,
		CreatedAt:             time.Now().UTC(),
	}
	s.mu.Lock()
	s.restaurants[restaurant.ID] = restaurant
	s.mu.Unlock()
	c.JSON(http.StatusOK, restaurant)
}

func (s *Server) addMenuItem(c *gin.Context) {
	user := currentUser(c)
	restaurantID := c.Param("id")
	s.mu.Lock()
	restaurant, ok := s.restaurants[restaurantID]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Restaurant not found"})
		return
	}
	if restaurant.OwnerID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Not authorized to modify this restaurant"})
		return
	}
	var req models.MenuItemCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	item := models.MenuItem{
		ID:              uuid.New().String(),
		RestaurantID:    restaurantID,
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		Category:        req.Category,
		IsAvailable:     true,
		PreparationTime: req.PreparationTime,
		CreatedAt:       time.Now().UTC(),
	}
	s.mu.Lock()
	s.menus[restaurantID] = append(s.menus[restaurantID], item)
	s.mu.Unlock()
	c.JSON(http.StatusOK, item)
}

// ── orders ─────────────────────────────────────────────────────────────────

func (s *Server) listOrders(c *gin.Context) {
	user := currentUser(c)
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := []models.Order{}
	for _, o := range s.orders {
		switch user.UserType {
		case models.TypeCustomer:
			if o.CustomerID == user.ID {
				orders = append(orders, o)
			}
		case models.TypeDriver:
			if o.DriverID != nil && *o.DriverID == user.ID {
				orders = append(orders, o)
			}
		case models.TypeRestaurant:
			if r, ok := s.restaurants[o.RestaurantID]; ok && r.OwnerID == user.ID {
				orders = append(orders, o)
			}
		default:
			orders = append(orders, o)
		}
	}
	c.JSON(http.StatusOK, orders)
}

func (s *Server) placeOrder(c *gin.Context) {
	user := currentUser(c)
	if user.UserType != models.TypeCustomer {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Only customers can create orders"})
		return
	}
	var req models.OrderCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	restaurant, ok := s.restaurants[req.RestaurantID]
	if !ok {
		s.mu.Unlock()
		c.JSON(http.StatusNotFound, gin.H{"detail": "Restaurant not found"})
		return
	}
	prices := map[string]float64{}
	for _, item := range s.menus[req.RestaurantID] {
		prices[item.ID] = item.Price
	}
	s.mu.Unlock()

	var subtotal float64
	for _, item := range req.Items {
		subtotal += prices[item.MenuItemID] * float64(item.Quantity)
	}
	tax := subtotal * 0.08
	now := time.Now().UTC()
	order := models.Order{
		ID:                    uuid.New().String(),
		CustomerID:            user.ID,
		RestaurantID:          req.RestaurantID,
		Items:                 req.Items,
		Subtotal:              subtotal,
		DeliveryFee:           restaurant.DeliveryFee,
		Tax:                   tax,
		Total:                 subtotal + restaurant.DeliveryFee + tax,
		Status:                models.StatusPending,
		DeliveryAddress:       req.DeliveryAddress,
		DeliveryLocation:      req.DeliveryLocation,
		SpecialInstructions:   req.SpecialInstructions,
		EstimatedDeliveryTime: now.Add(time.Duration(restaurant.EstimatedDeliveryTime) * time.Minute),
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	s.mu.Lock()
	s.orders[order.ID] = order
	s.mu.Unlock()

	s.broadcastToDrivers(gin.H{"type": "new_order", "order": order})
	c.JSON(http.StatusOK, gin.H{"order": order, "client_secret": "test_secret_" + order.ID})
}

func (s *Server) assignDriver(c *gin.Context) {
	user := currentUser(c)
	if user.UserType != models.TypeDriver {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Only drivers can accept orders"})
		return
	}
	orderID := c.Param("id")
	s.mu.Lock()
	order, ok := s.orders[orderID]
	if !ok || order.DriverID != nil {
		s.mu.Unlock()
		c.JSON(http.StatusNotFound, gin.H{"detail": "Order not found or already assigned"})
		return
	}
	driverID := user.ID
	order.DriverID = &driverID
	order.Status = models.StatusConfirmed
	order.UpdatedAt = time.Now().UTC()
	s.orders[orderID] = order
	s.mu.Unlock()

	s.sendTo("customer_"+order.CustomerID, gin.H{
		"type":     "driver_assigned",
		"order_id": orderID,
		"driver":   user,
	})
	c.JSON(http.StatusOK, gin.H{"message": "Driver assigned to order"})
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	user := currentUser(c)
	orderID := c.Param("id")
	status := models.OrderStatus(c.Query("status"))

	restaurantStatuses := map[models.OrderStatus]bool{
		models.StatusConfirmed: true, models.StatusPreparing: true, models.StatusReady: true,
	}
	driverStatuses := map[models.OrderStatus]bool{
		models.StatusPickedUp: true, models.StatusDelivered: true,
	}
	switch {
	case user.UserType == models.TypeRestaurant && restaurantStatuses[status]:
	case user.UserType == models.TypeDriver && driverStatuses[status]:
	default:
		c.JSON(http.StatusForbidden, gin.H{"detail": "Not authorized to update this status"})
		return
	}

	s.mu.Lock()
	order, ok := s.orders[orderID]
	if !ok {
		s.mu.Unlock()
		c.JSON(http.StatusNotFound, gin.H{"detail": "Order not found"})
		return
	}
	if err := statemachine.CanTransition(order.Status, status, string(user.UserType)); err != nil {
		s.mu.Unlock()
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	order.Status = status
	now := time.Now().UTC()
	order.UpdatedAt = now
	if status == models.StatusDelivered {
		order.ActualDeliveryTime = &now
	}
	s.orders[orderID] = order
	s.mu.Unlock()

	update := gin.H{"type": "order_status_update", "order_id": orderID, "status": status}
	s.sendTo("customer_"+order.CustomerID, update)
	if order.DriverID != nil {
		s.sendTo("driver_"+*order.DriverID, update)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated"})
}

// ── drivers & analytics ────────────────────────────────────────────────────

func (s *Server) reportLocation(c *gin.Context) {
	user := currentUser(c)
	if user.UserType != models.TypeDriver {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Only drivers can update location"})
		return
	}
	var loc models.Location
	if err := c.ShouldBindJSON(&loc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	user.Location = &loc
	s.users[user.ID] = user
	var customers []string
	for _, o := range s.orders {
		if o.DriverID != nil && *o.DriverID == user.ID && o.Status == models.StatusPickedUp {
			customers = append(customers, o.CustomerID)
		}
	}
	s.mu.Unlock()

	for _, customerID := range customers {
		s.sendTo("customer_"+customerID, gin.H{
			"type":     "driver_location_update",
			"location": loc,
		})
	}
	c.JSON(http.StatusOK, gin.H{"message": "Location updated"})
}

func (s *Server) analytics(c *gin.Context) {
	user := currentUser(c)
	if user.UserType != models.TypeAdmin {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Admin access required"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := models.AnalyticsSnapshot{
		TotalOrders:      len(s.orders),
		TotalUsers:       len(s.users),
		TotalRestaurants: len(s.restaurants),
	}
	for _, o := range s.orders {
		if o.Status == models.StatusDelivered {
			snapshot.CompletedOrders++
			snapshot.TotalRevenue += o.Total
		}
	}
	c.JSON(http.StatusOK, snapshot)
}

// ── notification hub ───────────────────────────────────────────────────────

func (s *Server) handleWS(c *gin.Context) {
	clientID := c.Param("client_id")
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	wc := &wsConn{conn: conn}
	s.mu.Lock()
	s.conns[clientID] = wc
	s.mu.Unlock()

	// Drain inbound frames until the client goes away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.mu.Lock()
				if s.conns[clientID] == wc {
					delete(s.conns, clientID)
				}
				s.mu.Unlock()
				conn.Close()
				return
			}
		}
	}()
}

// Push delivers an arbitrary payload to one connected client, for tests that
// simulate server-originated events. clientID is "{role}_{userID}". Unlike
// the server's own sends, pushing to a client that is not connected is an
// error, so tests can also use Push to probe for a live connection.
func (s *Server) Push(clientID string, payload any) error {
	s.mu.Lock()
	_, ok := s.conns[clientID]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("client %s not connected", clientID)
	}
	return s.sendTo(clientID, payload)
}

// DropConnection force-closes a client's notification connection, for
// reconnect tests.
func (s *Server) DropConnection(clientID string) {
	s.mu.Lock()
	wc, ok := s.conns[clientID]
	if ok {
		delete(s.conns, clientID)
	}
	s.mu.Unlock()
	if ok {
		wc.conn.Close()
	}
}

func (s *Server) sendTo(clientID string, payload any) error {
	s.mu.Lock()
	wc, ok := s.conns[clientID]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return wc.writeJSON(payload)
}

func (s *Server) broadcastToDrivers(payload any) {
	s.mu.Lock()
	var targets []*wsConn
	for clientID, wc := range s.conns {
		if strings.HasPrefix(clientID, "driver_") {
			targets = append(targets, wc)
		}
	}
	s.mu.Unlock()
	for _, wc := range targets {
		_ = wc.writeJSON(payload)
	}
}
