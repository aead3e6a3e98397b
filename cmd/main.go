package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/uplyft/shopchat-client/internal/config"
	"github.com/uplyft/shopchat-client/internal/gateway"
	"github.com/uplyft/shopchat-client/internal/logger"
	"github.com/uplyft/shopchat-client/internal/model"
	"github.com/uplyft/shopchat-client/internal/repository/sqlite"
	"github.com/uplyft/shopchat-client/internal/service"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := sqlite.NewConnection(ctx, cfg.Storage.Path)
	if err != nil {
		logger.Fatal("failed to initialize local storage", "error", err)
	}
	defer db.Close()

	credentials := sqlite.NewCredentialRepository(db)

	gw, err := gateway.New(cfg.API.BaseURL, cfg.API.Timeout, credentials, logger)
	if err != nil {
		logger.Fatal("failed to create gateway", "error", err)
	}

	session := service.NewSession(gw, credentials, logger)
	cart := service.NewCart(gw, logger)
	conversation := service.NewConversation(gw, logger)

	gw.OnUnauthorized(session.HandleUnauthorized)
	gw.OnUnauthorized(func() {
		fmt.Println("session expired, please log in again")
	})

	logAppVersion()

	if err := session.Bootstrap(ctx); err != nil {
		logger.Error("failed to restore session", "error", err)
	}
	if user, ok := session.CurrentUser(); ok {
		fmt.Printf("welcome back, %s\n", user.DisplayName())
	} else {
		fmt.Println("not logged in; use /login <email> <password>")
	}

	runLoop(ctx, session, cart, conversation)
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

// runLoop is the thin view layer: it reads intents from stdin,
// dispatches them into the stores, and prints whatever state they
// produce.
func runLoop(ctx context.Context, session *service.Session, cart *service.Cart, conversation *service.Conversation) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if ctx.Err() != nil {
			return
		}

		if !strings.HasPrefix(line, "/") {
			sendChat(ctx, conversation, line)
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "/quit", "/exit":
			return
		case "/help":
			printHelp()
		case "/login":
			if len(fields) != 3 {
				fmt.Println("usage: /login <email> <password>")
				continue
			}
			user, err := session.Login(ctx, fields[1], fields[2])
			if err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Printf("logged in as %s\n", user.DisplayName())
		case "/register":
			if len(fields) < 3 {
				fmt.Println("usage: /register <email> <password> [first] [last]")
				continue
			}
			params := model.RegisterParams{Email: fields[1], Password: fields[2]}
			if len(fields) > 3 {
				params.FirstName = fields[3]
			}
			if len(fields) > 4 {
				params.LastName = fields[4]
			}
			if err := session.Register(ctx, params); err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Println("registered; use /login to sign in")
		case "/logout":
			if err := session.Logout(ctx); err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Println("logged out")
		case "/whoami":
			user, ok := session.CurrentUser()
			if !ok {
				fmt.Printf("not logged in (session %s)\n", session.State())
				continue
			}
			fmt.Printf("%s <%s>\n", user.DisplayName(), user.Email)
			if exp := session.ExpiresAt(); !exp.IsZero() {
				fmt.Printf("session expires %s\n", exp.Format("2006-01-02 15:04"))
			}
		case "/cart":
			printCart(cart)
		case "/add":
			addFromRecommendations(ctx, cart, conversation, fields)
		case "/remove":
			if id, ok := parseID(fields, "/remove <product-id>"); ok {
				if err := cart.RemoveFromCart(ctx, id); err != nil {
					fmt.Println(err)
				}
				printCart(cart)
			}
		case "/qty":
			if len(fields) != 3 {
				fmt.Println("usage: /qty <product-id> <quantity>")
				continue
			}
			id, err1 := strconv.ParseInt(fields[1], 10, 64)
			qty, err2 := strconv.Atoi(fields[2])
			if err1 != nil || err2 != nil {
				fmt.Println("usage: /qty <product-id> <quantity>")
				continue
			}
			if err := cart.UpdateQuantity(ctx, id, qty); err != nil {
				fmt.Println(err)
			}
			printCart(cart)
		case "/clear-cart":
			if err := cart.ClearCart(ctx); err != nil {
				fmt.Println(err)
			}
			printCart(cart)
		case "/clear":
			conversation.ClearChat()
			fmt.Println("conversation cleared")
		default:
			fmt.Printf("unknown command %s, try /help\n", fields[0])
		}
	}
}

func sendChat(ctx context.Context, conversation *service.Conversation, text string) {
	// A failed exchange already appended its error reply to the
	// transcript, so the result is printed the same way either way.
	_ = conversation.SendMessage(ctx, text)

	messages := conversation.Messages()
	if len(messages) == 0 {
		return
	}
	last := messages[len(messages)-1]
	if !last.IsUser {
		fmt.Printf("assistant: %s\n", last.Content)
	}

	if products := conversation.Products(); len(products) > 0 {
		fmt.Println("recommended:")
		for _, p := range products {
			fmt.Printf("  [%d] %s (%s) $%.2f\n", p.ID, p.Title, p.Category, p.Price)
		}
	}
}

func addFromRecommendations(ctx context.Context, cart *service.Cart, conversation *service.Conversation, fields []string) {
	id, ok := parseID(fields, "/add <product-id>")
	if !ok {
		return
	}

	for _, p := range conversation.Products() {
		if p.ID == id {
			if err := cart.AddToCart(ctx, p); err != nil {
				fmt.Println(err)
			}
			printCart(cart)
			return
		}
	}
	fmt.Printf("product %d is not in the current recommendations\n", id)
}

func printCart(cart *service.Cart) {
	items := cart.Items()
	if len(items) == 0 {
		fmt.Println("cart is empty")
		return
	}
	for _, line := range items {
		fmt.Printf("  %dx %s $%.2f\n", line.Quantity, line.Title, line.Price)
	}
	fmt.Printf("total: $%.2f\n", cart.Total())
}

func parseID(fields []string, usage string) (int64, bool) {
	if len(fields) != 2 {
		fmt.Println("usage:", usage)
		return 0, false
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		fmt.Println("usage:", usage)
		return 0, false
	}
	return id, true
}

func printHelp() {
	fmt.Print(`commands:
  /login <email> <password>
  /register <email> <password> [first] [last]
  /logout
  /whoami
  /cart
  /add <product-id>       add a recommended product to the cart
  /remove <product-id>
  /qty <product-id> <n>
  /clear-cart
  /clear                  clear the conversation
  /quit
anything else is sent to the assistant
`)
}
