// internal/platform/di/container.go
package di

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	fsclient "cloud.google.com/go/firestore"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	httpin "techshop/internal/adapters/in/http"
	"techshop/internal/adapters/out/firebaseauth"
	fsrepo "techshop/internal/adapters/out/firestore"
	"techshop/internal/adapters/out/gcs"
	"techshop/internal/adapters/out/localstore"
	"techshop/internal/adapters/out/mail"
	cartapp "techshop/internal/application/cart"
	"techshop/internal/application/checkout"
	session "techshop/internal/application/session"
	"techshop/internal/domain/product"
	"techshop/internal/infra/config"
	"techshop/internal/infra/secrets"
)

// webAPIKeySecret is the Secret Manager secret holding the Identity Toolkit
// web API key when FIREBASE_WEB_API_KEY is unset.
const webAPIKeySecret = "techshop-firebase-web-api-key"

// Container owns the external clients and the wired managers. main.go stays
// thin: build the container, hand RouterDeps to the router, Close on exit.
//
// Firestore and Firebase Auth are strict (no session/cart/checkout without
// them). GCS, Secret Manager and SendGrid are best-effort: their features
// degrade with a warning.
type Container struct {
	Config *config.Config

	firestore *fsclient.Client
	gcs       *storage.Client
	sm        *secretmanager.Client

	gateway   *firebaseauth.Gateway
	sessionUC *session.Manager
	cartUC    *cartapp.Manager

	deps httpin.RouterDeps
}

// NewContainer assembles the runtime. The passed ctx bounds the lifetime of
// the live cart subscription, so callers should hand in the process context.
func NewContainer(ctx context.Context) (*Container, error) {
	cfg := config.Load()
	c := &Container{Config: cfg}

	projectID := strings.TrimSpace(cfg.FirestoreProjectID)
	if projectID == "" {
		return nil, errors.New("di: project id is empty (set FIRESTORE_PROJECT_ID or GCP_PROJECT_ID)")
	}

	credFile := strings.TrimSpace(cfg.FirestoreCredentialsFile)
	if credFile == "" {
		credFile = strings.TrimSpace(cfg.GCPCreds)
	}
	var clientOpts []option.ClientOption
	if credFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credFile))
		log.Printf("[di] using credentials file for GCP clients")
	} else {
		log.Printf("[di] using Application Default Credentials")
	}

	// Firestore (strict)
	fsCli, err := fsclient.NewClient(ctx, projectID, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("di: firestore.NewClient failed (project=%s): %w", projectID, err)
	}
	c.firestore = fsCli
	log.Printf("[di] Firestore connected project=%s", projectID)

	// Firebase Auth (strict; the session manager cannot run without it)
	fbApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: strings.TrimSpace(cfg.FirebaseProjectID)}, clientOpts...)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("di: firebase app init failed: %w", err)
	}
	fbAuth, err := fbApp.Auth(ctx)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("di: firebase auth init failed: %w", err)
	}
	log.Printf("[di] Firebase Auth initialized")

	// Secret Manager (best-effort; only needed when the web API key is not
	// in the environment)
	if sm, err := secretmanager.NewClient(ctx, clientOpts...); err != nil {
		log.Printf("[di] WARN: secretmanager.NewClient failed: %v", err)
	} else {
		c.sm = sm
	}

	webAPIKey, err := secrets.NewProvider(c.sm, projectID).
		Resolve(ctx, "FIREBASE_WEB_API_KEY", webAPIKeySecret)
	if err != nil || webAPIKey == "" {
		c.Close()
		return nil, fmt.Errorf("di: firebase web api key unavailable: %w", err)
	}

	// GCS (best-effort; avatar uploads degrade without it)
	var avatars *gcs.AvatarRepositoryGCS
	if gcsCli, err := storage.NewClient(ctx, clientOpts...); err != nil {
		log.Printf("[di] WARN: storage.NewClient failed: %v (avatar uploads disabled)", err)
	} else {
		c.gcs = gcsCli
		avatars = gcs.NewAvatarRepositoryGCS(gcsCli, cfg.AvatarIconBucket)
	}

	// Device-local state (guest cart, persisted session)
	local, err := localstore.New(cfg.LocalStateDir)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("di: local state dir: %w", err)
	}

	// Repositories
	profiles := fsrepo.NewProfileRepositoryFS(fsCli)
	carts := fsrepo.NewCartRepositoryFS(fsCli)

	// Session: gateway first, manager subscribed before the gateway replays
	// the persisted session.
	c.gateway = firebaseauth.NewGateway(fbAuth, local, webAPIKey)
	c.sessionUC = session.NewManager(c.gateway, profiles, carts)
	if err := c.sessionUC.Start(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("di: session manager: %w", err)
	}

	// Cart follows the identity feed.
	c.cartUC = cartapp.NewManager(carts, local, profiles)
	if err := c.cartUC.Bind(ctx, c.sessionUC); err != nil {
		c.Close()
		return nil, fmt.Errorf("di: cart manager: %w", err)
	}

	if err := c.gateway.Start(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("di: auth gateway: %w", err)
	}

	// Checkout; confirmation mail is optional.
	var mailer checkout.Mailer
	if strings.TrimSpace(cfg.SendGridAPIKey) != "" {
		mailer = mail.NewSendGridClient(cfg.SendGridAPIKey)
	} else {
		log.Printf("[di] SendGrid not configured (order confirmation mail disabled)")
	}
	checkoutUC := checkout.NewUsecase(c.sessionUC, c.cartUC, profiles, mailer, cfg.OrderMailFrom)

	c.deps = httpin.RouterDeps{
		Catalog:    product.Catalog(),
		SessionUC:  c.sessionUC,
		CartUC:     c.cartUC,
		CheckoutUC: checkoutUC,
		Profiles:   profiles,
	}
	if avatars != nil {
		c.deps.Avatars = avatars
	}

	return c, nil
}

// RouterDeps returns the wired dependencies for the HTTP router.
func (c *Container) RouterDeps() httpin.RouterDeps {
	return c.deps
}

// Close releases subscriptions and external clients.
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.cartUC != nil {
		c.cartUC.Close()
	}
	if c.sessionUC != nil {
		c.sessionUC.Close()
	}
	if c.firestore != nil {
		_ = c.firestore.Close()
	}
	if c.gcs != nil {
		_ = c.gcs.Close()
	}
	if c.sm != nil {
		_ = c.sm.Close()
	}
}
