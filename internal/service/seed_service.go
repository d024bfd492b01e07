package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/order-desk/internal/domain"
	"github.com/spec-kit/order-desk/internal/repository"
)

// SeedService populates an empty store with demonstration data. The
// random source and clock are injected so runs are reproducible; against
// a non-empty store it does nothing.
type SeedService struct {
	orders  repository.OrderRepository
	tickets repository.TicketRepository
	replies repository.TicketReplyRepository
	logger  *zap.Logger
	rng     *rand.Rand
	now     func() time.Time
}

// SeedDependencies bundles collaborators for the seed service.
type SeedDependencies struct {
	OrderRepo  repository.OrderRepository
	TicketRepo repository.TicketRepository
	ReplyRepo  repository.TicketReplyRepository
	Logger     *zap.Logger
	RandomSeed int64
	Clock      func() time.Time
}

var seedCustomerNames = []string{
	"Kasun Perera", "Nimali Silva", "Chaminda Fernando", "Sanduni Jayawardena",
	"Ruwan Wickramasinghe", "Dilini Rajapaksa", "Tharaka Gunasekara", "Priyanka Mendis",
	"Asanka Wijeratne", "Chathurika Bandara", "Mahesh Dissanayake", "Samanthi Kumari",
	"Janith Rathnayake", "Thilini Seneviratne", "Dhanushka Amarasinghe", "Kavitha Liyanage",
}

var seedFoodItems = []string{
	"Chicken Kottu Roti", "Fish Curry with Rice", "Hoppers with Egg",
	"Chicken Fried Rice", "Vegetable Curry", "Pol Sambol with Rice",
	"String Hoppers", "Chicken Curry", "Dhal Curry", "Parippu Curry",
	"Fish Ambul Thiyal", "Beef Curry", "Chicken Devilled", "Egg Hoppers",
	"Coconut Roti", "Kiribath", "Watalappan", "Curd with Treacle",
}

var seedStreets = []string{
	"Galle Road, Colombo 03", "Kandy Road, Kadawatha", "Main Street, Negombo",
	"Temple Road, Nugegoda", "Station Road, Dehiwala", "Beach Road, Mount Lavinia",
}

var seedTicketTitles = []string{
	"Order arrived cold", "Wrong items delivered", "Delivery took too long",
	"Payment charged twice", "Missing item in order", "Food quality below expectations",
	"Rider could not find the address", "Request refund for cancelled order",
}

var seedReplyMessages = []string{
	"Thank you for reaching out, we are looking into this.",
	"We apologize for the inconvenience caused.",
	"Could you share a photo of the order you received?",
	"A refund has been initiated and should reflect within 3 working days.",
	"Our delivery partner has been notified about this issue.",
}

// NewSeedService constructs the service.
func NewSeedService(deps SeedDependencies) *SeedService {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedService{
		orders:  deps.OrderRepo,
		tickets: deps.TicketRepo,
		replies: deps.ReplyRepo,
		logger:  logger,
		rng:     rand.New(rand.NewSource(deps.RandomSeed)),
		now:     now,
	}
}

// Run seeds demonstration orders, tickets and replies when the order
// table is empty. A populated store is left untouched.
func (s *SeedService) Run(ctx context.Context) error {
	count, err := s.orders.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		s.logger.Info("store already contains data, skipping seed", zap.Int64("orders", count))
		return nil
	}

	orders, err := s.seedOrders(ctx)
	if err != nil {
		return err
	}
	if err := s.seedTickets(ctx, orders); err != nil {
		return err
	}
	s.logger.Info("seeded demonstration data", zap.Int("orders", len(orders)))
	return nil
}

func (s *SeedService) seedOrders(ctx context.Context) ([]domain.Order, error) {
	now := s.now()
	orders := make([]domain.Order, 0, 10)
	for i := 0; i < 10; i++ {
		name := seedCustomerNames[s.rng.Intn(len(seedCustomerNames))]
		order := domain.Order{
			CustomerName:    name,
			CustomerEmail:   seedEmail(name, i),
			CustomerPhone:   fmt.Sprintf("+9477%07d", s.rng.Intn(10000000)),
			DeliveryAddress: fmt.Sprintf("No. %d, %s", 1+s.rng.Intn(200), seedStreets[s.rng.Intn(len(seedStreets))]),
			FoodItems:       s.pickFoodItems(),
			TotalAmount:     float64(500+s.rng.Intn(4500)) + 0.50,
			Currency:        domain.DefaultCurrency,
			Status:          domain.OrderStatuses[s.rng.Intn(len(domain.OrderStatuses))],
			OrderDate:       now.Add(-time.Duration(s.rng.Intn(30*24)) * time.Hour),
		}
		if s.rng.Intn(2) == 0 {
			order.SpecialInstructions = "Please ring the bell at the gate"
		}
		if err := s.orders.Create(ctx, &order); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (s *SeedService) seedTickets(ctx context.Context, orders []domain.Order) error {
	limit := 8
	if len(orders) < limit {
		limit = len(orders)
	}
	for i := 0; i < limit; i++ {
		order := orders[i]
		created := order.OrderDate.Add(time.Duration(1+s.rng.Intn(12)) * time.Hour)
		ticket := domain.Ticket{
			OrderID:       order.ID,
			Title:         seedTicketTitles[s.rng.Intn(len(seedTicketTitles))],
			Description:   "Customer reported an issue with this order and requested follow-up.",
			Priority:      domain.TicketPriorities[s.rng.Intn(len(domain.TicketPriorities))],
			Category:      domain.SuggestedCategories[s.rng.Intn(len(domain.SuggestedCategories))],
			CustomerName:  order.CustomerName,
			CustomerEmail: order.CustomerEmail,
			CustomerPhone: order.CustomerPhone,
			Status:        domain.TicketStatuses[s.rng.Intn(len(domain.TicketStatuses))],
			CreatedDate:   created,
			UpdatedDate:   created.Add(time.Duration(s.rng.Intn(48)) * time.Hour),
		}
		if ticket.Status == domain.TicketStatusResolved {
			resolved := ticket.UpdatedDate.Add(time.Duration(s.rng.Intn(24)) * time.Hour)
			ticket.ResolvedDate = &resolved
		}
		if err := s.tickets.Create(ctx, &ticket); err != nil {
			return err
		}
		if s.rng.Intn(2) == 0 {
			if err := s.seedReplies(ctx, &ticket); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *SeedService) seedReplies(ctx context.Context, ticket *domain.Ticket) error {
	replyCount := 1 + s.rng.Intn(3)
	for i := 0; i < replyCount; i++ {
		createdAt := ticket.CreatedDate.Add(time.Duration(i+1) * time.Hour)
		reply := domain.TicketReply{
			TicketID:    ticket.ID,
			Message:     seedReplyMessages[s.rng.Intn(len(seedReplyMessages))],
			AuthorName:  "Support Team",
			AuthorEmail: "support@fooddesk.lk",
			CreatedDate: createdAt,
		}
		if s.rng.Intn(2) == 0 {
			reply.AuthorName = ticket.CustomerName
			reply.AuthorEmail = ticket.CustomerEmail
		}
		if err := s.replies.Append(ctx, &reply, createdAt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SeedService) pickFoodItems() string {
	first := seedFoodItems[s.rng.Intn(len(seedFoodItems))]
	second := seedFoodItems[s.rng.Intn(len(seedFoodItems))]
	if first == second {
		return fmt.Sprintf("%s x2", first)
	}
	return fmt.Sprintf("%s, %s", first, second)
}

func seedEmail(name string, n int) string {
	local := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			local = append(local, r+('a'-'A'))
		case r >= 'a' && r <= 'z':
			local = append(local, r)
		case r == ' ':
			local = append(local, '.')
		}
	}
	return fmt.Sprintf("%s%d@example.lk", string(local), n)
}
