// Command token mints access tokens for local development and smoke tests.
//
//	go run ./cmd/token -role staff -user <staff-id> -store <store-id>
//	go run ./cmd/token -role admin -user <admin-id> -stores <id>,<id>
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/config"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/jwt"
)

func main() {
	role := flag.String("role", string(user.RoleStaff), "super_admin, admin or staff")
	userID := flag.String("user", "", "principal id")
	storeID := flag.String("store", "", "store id (staff)")
	storeIDs := flag.String("stores", "", "comma separated managed store ids (admin)")
	ttl := flag.Duration("ttl", 0, "token lifetime, defaults to JWT_ACCESS_EXPIRATION_TIME")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	lifetime := cfg.JWT.AccessExpiration
	if *ttl > 0 {
		lifetime = *ttl
	}

	var principal user.Principal
	switch user.Role(*role) {
	case user.RoleSuperAdmin:
		principal = user.SuperAdmin{ID: *userID}
	case user.RoleAdmin:
		var ids []string
		for _, id := range strings.Split(*storeIDs, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		principal = user.Admin{ID: *userID, StoreIDs: ids}
	case user.RoleStaff:
		principal = user.Staff{ID: *userID, StoreID: *storeID}
	default:
		fmt.Fprintf(os.Stderr, "unknown role %q\n", *role)
		os.Exit(2)
	}

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "-user is required")
		os.Exit(2)
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, lifetime).GenerateAccessToken(principal)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error generating token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires at %s\n", time.Unix(expiresAt, 0).Format(time.RFC3339))
}
