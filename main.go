package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mhsanaei/todo-api/config"
	"github.com/mhsanaei/todo-api/database"
	"github.com/mhsanaei/todo-api/logger"
	"github.com/mhsanaei/todo-api/util/common"
	"github.com/mhsanaei/todo-api/util/crypto"
	"github.com/mhsanaei/todo-api/web"
	"github.com/mhsanaei/todo-api/web/entity"
	"github.com/mhsanaei/todo-api/web/service"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func initLogger() {
	level, err := logger.ParseLevel(config.GetLogLevel())
	if err != nil {
		log.Fatal(err)
	}
	logger.InitLogger(level)
}

func initDB() {
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		log.Fatal(err)
	}
	if err := database.InitDB(dbConfig); err != nil {
		log.Fatal(err)
	}
}

func runWebServer() {
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	initLogger()
	defer logger.CloseLogger()
	initDB()
	defer func() {
		if err := database.CloseDB(); err != nil {
			logger.Warning("close database:", err)
		}
	}()

	server := web.NewServer(database.GetDB())
	if err := server.Start(); err != nil {
		log.Println(err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			logger.Info("received SIGHUP, restarting web server")
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			server = web.NewServer(database.GetDB())
			if err := server.Start(); err != nil {
				log.Println(err)
				return
			}
		default:
			logger.Info("received", sig, "shutting down")
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			return
		}
	}
}

func migrateDb() {
	initDB()
	defer database.CloseDB()
	fmt.Println("migration done")
}

func newUserService() *service.UserService {
	initDB()
	return service.NewUserService(database.GetDB())
}

func addUser(username, password string) error {
	users := newUserService()
	defer database.CloseDB()

	auth := service.NewAuthService(users, crypto.PasswordHasher{}, nil)
	ok, err := auth.Register(context.Background(), username, password)
	if err != nil {
		return err
	}
	if !ok {
		return common.NewErrorf("username %q is taken", username)
	}
	fmt.Println("user", username, "created")
	return nil
}

func showUser(username string) error {
	users := newUserService()
	defer database.CloseDB()

	user, err := users.GetUserByUsername(context.Background(), username)
	if err != nil {
		return err
	}
	if user == nil {
		return common.NewErrorf("user %q not found", username)
	}
	out, err := json.MarshalIndent(entity.NewUserView(user), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func removeUser(id int) error {
	users := newUserService()
	defer database.CloseDB()

	if err := users.RemoveUser(context.Background(), id); err != nil {
		return err
	}
	fmt.Println("user", id, "removed with their tasks")
	return nil
}

func main() {
	if err := config.LoadEnv(); err != nil {
		log.Fatal(err)
	}

	var rootCmd = &cobra.Command{
		Use:     config.GetName(),
		Version: config.GetVersion(),
	}

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the web server",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	var migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Run: func(cmd *cobra.Command, args []string) {
			migrateDb()
		},
	}

	var userCmd = &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	var addCmd = &cobra.Command{
		Use:   "add",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			return addUser(username, password)
		},
	}
	addCmd.Flags().String("username", "", "login username")
	addCmd.Flags().String("password", "", "login password")
	_ = addCmd.MarkFlagRequired("username")
	_ = addCmd.MarkFlagRequired("password")

	var showCmd = &cobra.Command{
		Use:   "show",
		Short: "Print a user as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			return showUser(username)
		},
	}
	showCmd.Flags().String("username", "", "username to look up")
	_ = showCmd.MarkFlagRequired("username")

	var removeCmd = &cobra.Command{
		Use:   "remove",
		Short: "Delete a user, their tasks and every grant that mentions them",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetInt("id")
			return removeUser(id)
		},
	}
	removeCmd.Flags().Int("id", 0, "user id")
	_ = removeCmd.MarkFlagRequired("id")

	userCmd.AddCommand(addCmd, showCmd, removeCmd)

	rootCmd.AddCommand(runCmd, migrateCmd, userCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
