package services

import (
	"crypto/tls"
	"errors"
	"fmt"

	"github.com/go-ldap/ldap/v3"
	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/pkg/logger"
)

// LDAPVerifier authenticates users by binding against a directory server.
// It implements CredentialVerifier; every failure collapses into a uniform
// rejection so callers cannot tell a missing user from a wrong password.
type LDAPVerifier struct {
	config *config.LDAPConfig
}

func NewLDAPVerifier(cfg *config.LDAPConfig) *LDAPVerifier {
	return &LDAPVerifier{config: cfg}
}

var errLDAPRejected = errors.New("ldap authentication rejected")

// Verify searches for the user and binds with their credentials.
func (v *LDAPVerifier) Verify(username, password string) error {
	if !v.config.Enabled {
		return errLDAPRejected
	}
	// An empty bind password would turn into an anonymous bind and succeed
	// against many directory servers.
	if password == "" {
		return errLDAPRejected
	}

	addr := fmt.Sprintf("%s:%d", v.config.Host, v.config.Port)
	var conn *ldap.Conn
	var err error

	if v.config.UseSSL {
		conn, err = ldap.DialTLS("tcp", addr, &tls.Config{InsecureSkipVerify: true})
	} else {
		conn, err = ldap.Dial("tcp", addr)
	}
	if err != nil {
		logger.Error().Err(err).Str("addr", addr).Msg("ldap connect failed")
		return errLDAPRejected
	}
	defer conn.Close()

	// Bind with service account (if configured)
	if v.config.BindDN != "" {
		if err := conn.Bind(v.config.BindDN, v.config.BindPassword); err != nil {
			logger.Error().Err(err).Msg("ldap service bind failed")
			return errLDAPRejected
		}
	}

	searchFilter := fmt.Sprintf(v.config.UserFilter, ldap.EscapeFilter(username))
	searchRequest := ldap.NewSearchRequest(
		v.config.BaseDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 0, 0, false,
		searchFilter,
		[]string{"dn"},
		nil,
	)

	result, err := conn.Search(searchRequest)
	if err != nil {
		logger.Warn().Err(err).Msg("ldap search failed")
		return errLDAPRejected
	}
	if len(result.Entries) != 1 {
		return errLDAPRejected
	}

	// Bind as the user to verify the password
	if err := conn.Bind(result.Entries[0].DN, password); err != nil {
		return errLDAPRejected
	}

	return nil
}
