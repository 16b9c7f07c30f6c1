package auth

import (
	"bufio"
	"context"
	"os"
	"strings"

	"osprey-mdi/core/store"
	"osprey-mdi/core/utils"
)

// ImportLegacyUsers migrates a flat credential file (one `username,hash`
// per line) into the users table. Usernames already present are skipped,
// so the import is safe to run on every start. A missing file is not an
// error. Returns the number of rows imported.
func ImportLegacyUsers(ctx context.Context, users store.UsersStore, path string, logger *utils.Logger) (int, error) {
	if strings.TrimSpace(path) == "" {
		return 0, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	defer f.Close()

	imported := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		username, hash, ok := strings.Cut(line, ",")
		if !ok {
			if logger != nil {
				logger.Warnf("legacy users: skipping malformed line")
			}
			continue
		}
		username = strings.ToLower(strings.TrimSpace(username))
		hash = strings.TrimSpace(hash)
		if username == "" || hash == "" {
			continue
		}
		existing, err := users.FindByUsername(ctx, username)
		if err != nil {
			return imported, err
		}
		if existing != nil {
			continue
		}
		// Legacy hashes are plain bcrypt (no pepper); VerifyPassword still
		// accepts them when pepper is unset.
		if _, err := users.Create(ctx, &store.User{
			Username:     username,
			PasswordHash: hash,
			Role:         "general",
		}); err != nil {
			return imported, err
		}
		imported++
	}
	if err := scanner.Err(); err != nil {
		return imported, err
	}
	if logger != nil && imported > 0 {
		logger.Printf("legacy users imported: %d", imported)
	}
	return imported, nil
}
