/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/mux"
	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/hyperledger/aries-framework-go/component/storage/leveldb"
	"github.com/hyperledger/aries-framework-go/component/storageutil/mem"
	"github.com/hyperledger/aries-framework-go/spi/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/ghostid/wallet-agent/pkg/controller"
	transport "github.com/ghostid/wallet-agent/pkg/didcomm/transport/http"
	"github.com/ghostid/wallet-agent/pkg/framework/agent"
	"github.com/ghostid/wallet-agent/pkg/proof"
	"github.com/ghostid/wallet-agent/pkg/proof/groth16"
	"github.com/ghostid/wallet-agent/pkg/proof/remote"
)

const (
	// api host flag.
	agentHostFlagName      = "api-host"
	agentHostEnvKey        = "GHOSTID_API_HOST"
	agentHostFlagShorthand = "a"
	agentHostFlagUsage     = "Host Name:Port." +
		" Alternatively, this can be set with the following environment variable: " + agentHostEnvKey

	// api token flag.
	agentTokenFlagName      = "api-token"
	agentTokenEnvKey        = "GHOSTID_API_TOKEN" // nolint:gosec
	agentTokenFlagShorthand = "t"
	agentTokenFlagUsage     = "Check for bearer token in the authorization header (optional)." +
		" Alternatively, this can be set with the following environment variable: " + agentTokenEnvKey

	databaseTypeFlagName      = "database-type"
	databaseTypeEnvKey        = "GHOSTID_DATABASE_TYPE"
	databaseTypeFlagShorthand = "q"
	databaseTypeFlagUsage     = "The type of database to use for the wallet. " +
		"Supported options: mem, leveldb. " +
		" Alternatively, this can be set with the following environment variable: " + databaseTypeEnvKey

	databasePathFlagName      = "database-path"
	databasePathEnvKey        = "GHOSTID_DATABASE_PATH"
	databasePathFlagShorthand = "v"
	databasePathFlagUsage     = "The directory of the leveldb database. Not needed if using memstore." +
		" Alternatively, this can be set with the following environment variable: " + databasePathEnvKey

	databaseTimeoutFlagName  = "database-timeout"
	databaseTimeoutFlagUsage = "Total time in seconds to wait until the db is available before giving up." +
		" Default: " + databaseTimeoutDefault + " seconds." +
		" Alternatively, this can be set with the following environment variable: " + databaseTimeoutEnvKey
	databaseTimeoutEnvKey  = "GHOSTID_DATABASE_TIMEOUT"
	databaseTimeoutDefault = "30"

	// wallet namespace flag.
	walletNamespaceFlagName      = "wallet-namespace"
	walletNamespaceEnvKey        = "GHOSTID_WALLET_NAMESPACE"
	walletNamespaceFlagShorthand = "n"
	walletNamespaceFlagUsage     = "Storage namespace of the wallet. Defaults to polygonid if not set." +
		" Alternatively, this can be set with the following environment variable: " + walletNamespaceEnvKey

	// did method flag.
	didMethodFlagName      = "did-method"
	didMethodEnvKey        = "GHOSTID_DID_METHOD"
	didMethodFlagShorthand = "m"
	didMethodFlagUsage     = "DID method, with network, used for new identities." +
		" Defaults to polygonid:polygon:mumbai if not set." +
		" Alternatively, this can be set with the following environment variable: " + didMethodEnvKey

	// delivery timeout flag.
	deliveryTimeoutFlagName  = "delivery-timeout"
	deliveryTimeoutEnvKey    = "GHOSTID_DELIVERY_TIMEOUT"
	deliveryTimeoutFlagUsage = "Time to wait for the verifier to answer a delivery, for example 30s." +
		" Defaults to 30s if not set." +
		" Alternatively, this can be set with the following environment variable: " + deliveryTimeoutEnvKey

	// delivery retries flag.
	deliveryRetriesFlagName  = "delivery-retries"
	deliveryRetriesEnvKey    = "GHOSTID_DELIVERY_RETRIES"
	deliveryRetriesFlagUsage = "Number of times a failed delivery is retried. Defaults to 2 if not set." +
		" Alternatively, this can be set with the following environment variable: " + deliveryRetriesEnvKey

	// prover flag.
	proverFlagName      = "prover"
	proverEnvKey        = "GHOSTID_PROVER"
	proverFlagShorthand = "p"
	proverFlagUsage     = "Prover used for zero-knowledge proofs." +
		" Possible values [groth16] [remote]. Defaults to groth16 if not set." +
		" Alternatively, this can be set with the following environment variable: " + proverEnvKey

	// prover url flag.
	proverURLFlagName  = "prover-url"
	proverURLEnvKey    = "GHOSTID_PROVER_URL"
	proverURLFlagUsage = "URL of the remote prover. Required when the prover is remote." +
		" Alternatively, this can be set with the following environment variable: " + proverURLEnvKey

	// log level.
	agentLogLevelFlagName  = "log-level"
	agentLogLevelEnvKey    = "GHOSTID_LOG_LEVEL"
	agentLogLevelFlagUsage = "Log level." +
		" Possible values [INFO] [DEBUG] [ERROR] [WARNING] [CRITICAL] . Defaults to INFO if not set." +
		" Alternatively, this can be set with the following environment variable: " + agentLogLevelEnvKey

	agentTLSCertFileFlagName      = "tls-cert-file"
	agentTLSCertFileEnvKey        = "TLS_CERT_FILE"
	agentTLSCertFileFlagShorthand = "c"
	agentTLSCertFileFlagUsage     = "tls certificate file." +
		" Alternatively, this can be set with the following environment variable: " + agentTLSCertFileEnvKey

	agentTLSKeyFileFlagName      = "tls-key-file"
	agentTLSKeyFileEnvKey        = "TLS_KEY_FILE"
	agentTLSKeyFileFlagShorthand = "k"
	agentTLSKeyFileFlagUsage     = "tls key file." +
		" Alternatively, this can be set with the following environment variable: " + agentTLSKeyFileEnvKey

	databaseTypeMemOption     = "mem"
	databaseTypeLevelDBOption = "leveldb"

	proverGroth16Option = "groth16"
	proverRemoteOption  = "remote"

	metricsPath = "/metrics"
)

var (
	errMissingHost = errors.New("host not provided")
	logger         = log.New("ghostid/agent-rest")
)

type agentParameters struct {
	server                  server
	host, token             string
	tlsCertFile, tlsKeyFile string
	namespace, didMethod    string
	deliveryTimeout         time.Duration
	deliveryRetries         int
	prover, proverURL       string
	dbParam                 *dbParam
}

type dbParam struct {
	dbType  string
	path    string
	timeout uint64
}

// nolint:gochecknoglobals
var supportedStorageProviders = map[string]func(path string) (storage.Provider, error){
	databaseTypeMemOption: func(_ string) (storage.Provider, error) { // nolint:unparam
		return mem.NewProvider(), nil
	},
	databaseTypeLevelDBOption: func(path string) (storage.Provider, error) {
		if path == "" {
			return nil, backoff.Permanent(errors.New("leveldb database requires a path"))
		}

		return leveldb.NewProvider(path), nil
	},
}

type server interface {
	ListenAndServe(host string, router http.Handler, certFile, keyFile string) error
}

// HTTPServer represents an actual server implementation.
type HTTPServer struct{}

// ListenAndServe starts the server using the standard Go HTTP server implementation.
func (s *HTTPServer) ListenAndServe(host string, router http.Handler, certFile, keyFile string) error {
	if certFile != "" && keyFile != "" {
		return http.ListenAndServeTLS(host, certFile, keyFile, router)
	}

	return http.ListenAndServe(host, router)
}

// Cmd returns the Cobra start command.
func Cmd(server server) (*cobra.Command, error) {
	startCmd := createStartCMD(server)

	createFlags(startCmd)

	return startCmd, nil
}

func createStartCMD(server server) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start an agent",
		Long:  `Start a wallet agent controller`,
		RunE: func(cmd *cobra.Command, args []string) error {
			parameters, err := newAgentParameters(server, cmd)
			if err != nil {
				return err
			}

			return startAgent(parameters)
		},
	}
}

func newAgentParameters(server server, cmd *cobra.Command) (*agentParameters, error) { // nolint: funlen,gocyclo
	logLevel, err := getUserSetVar(cmd, agentLogLevelFlagName, agentLogLevelEnvKey, true)
	if err != nil {
		return nil, err
	}

	if err = setLogLevel(logLevel); err != nil {
		return nil, err
	}

	host, err := getUserSetVar(cmd, agentHostFlagName, agentHostEnvKey, false)
	if err != nil {
		return nil, err
	}

	token, err := getUserSetVar(cmd, agentTokenFlagName, agentTokenEnvKey, true)
	if err != nil {
		return nil, err
	}

	dbParam, err := getDBParam(cmd)
	if err != nil {
		return nil, err
	}

	namespace, err := getUserSetVar(cmd, walletNamespaceFlagName, walletNamespaceEnvKey, true)
	if err != nil {
		return nil, err
	}

	didMethod, err := getUserSetVar(cmd, didMethodFlagName, didMethodEnvKey, true)
	if err != nil {
		return nil, err
	}

	deliveryTimeout, err := getDeliveryTimeout(cmd)
	if err != nil {
		return nil, err
	}

	deliveryRetries, err := getDeliveryRetries(cmd)
	if err != nil {
		return nil, err
	}

	prover, err := getUserSetVar(cmd, proverFlagName, proverEnvKey, true)
	if err != nil {
		return nil, err
	}

	proverURL, err := getUserSetVar(cmd, proverURLFlagName, proverURLEnvKey, true)
	if err != nil {
		return nil, err
	}

	tlsCertFile, err := getUserSetVar(cmd, agentTLSCertFileFlagName, agentTLSCertFileEnvKey, true)
	if err != nil {
		return nil, err
	}

	tlsKeyFile, err := getUserSetVar(cmd, agentTLSKeyFileFlagName, agentTLSKeyFileEnvKey, true)
	if err != nil {
		return nil, err
	}

	return &agentParameters{
		server:          server,
		host:            host,
		token:           token,
		tlsCertFile:     tlsCertFile,
		tlsKeyFile:      tlsKeyFile,
		namespace:       namespace,
		didMethod:       didMethod,
		deliveryTimeout: deliveryTimeout,
		deliveryRetries: deliveryRetries,
		prover:          prover,
		proverURL:       proverURL,
		dbParam:         dbParam,
	}, nil
}

func getDBParam(cmd *cobra.Command) (*dbParam, error) {
	dbParam := &dbParam{}

	var err error

	dbParam.dbType, err = getUserSetVar(cmd, databaseTypeFlagName, databaseTypeEnvKey, false)
	if err != nil {
		return nil, err
	}

	dbParam.path, err = getUserSetVar(cmd, databasePathFlagName, databasePathEnvKey, true)
	if err != nil {
		return nil, err
	}

	dbTimeout, err := getUserSetVar(cmd, databaseTimeoutFlagName, databaseTimeoutEnvKey, true)
	if err != nil {
		return nil, err
	}

	if dbTimeout == "" || dbTimeout == "0" {
		dbTimeout = databaseTimeoutDefault
	}

	t, err := strconv.Atoi(dbTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to parse db timeout %s: %w", dbTimeout, err)
	}

	dbParam.timeout = uint64(t)

	return dbParam, nil
}

func getDeliveryTimeout(cmd *cobra.Command) (time.Duration, error) {
	v, err := getUserSetVar(cmd, deliveryTimeoutFlagName, deliveryTimeoutEnvKey, true)
	if err != nil {
		return 0, err
	}

	if v == "" {
		return transport.DefaultTimeout, nil
	}

	timeout, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("failed to parse delivery timeout %s: %w", v, err)
	}

	if timeout <= 0 {
		return 0, fmt.Errorf("delivery timeout must be positive: %s", v)
	}

	return timeout, nil
}

func getDeliveryRetries(cmd *cobra.Command) (int, error) {
	v, err := getUserSetVar(cmd, deliveryRetriesFlagName, deliveryRetriesEnvKey, true)
	if err != nil {
		return 0, err
	}

	if v == "" {
		return -1, nil
	}

	retries, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("failed to parse delivery retries %s: %w", v, err)
	}

	if retries < 0 {
		return 0, fmt.Errorf("delivery retries must not be negative: %d", retries)
	}

	return retries, nil
}

func createFlags(startCmd *cobra.Command) {
	// agent host flag
	startCmd.Flags().StringP(agentHostFlagName, agentHostFlagShorthand, "", agentHostFlagUsage)

	// agent token flag
	startCmd.Flags().StringP(agentTokenFlagName, agentTokenFlagShorthand, "", agentTokenFlagUsage)

	// db type
	startCmd.Flags().StringP(databaseTypeFlagName, databaseTypeFlagShorthand, "", databaseTypeFlagUsage)

	// db path
	startCmd.Flags().StringP(databasePathFlagName, databasePathFlagShorthand, "", databasePathFlagUsage)

	// db timeout
	startCmd.Flags().StringP(databaseTimeoutFlagName, "", "", databaseTimeoutFlagUsage)

	// wallet namespace
	startCmd.Flags().StringP(walletNamespaceFlagName, walletNamespaceFlagShorthand, "", walletNamespaceFlagUsage)

	// did method
	startCmd.Flags().StringP(didMethodFlagName, didMethodFlagShorthand, "", didMethodFlagUsage)

	// delivery
	startCmd.Flags().StringP(deliveryTimeoutFlagName, "", "", deliveryTimeoutFlagUsage)
	startCmd.Flags().StringP(deliveryRetriesFlagName, "", "", deliveryRetriesFlagUsage)

	// prover
	startCmd.Flags().StringP(proverFlagName, proverFlagShorthand, "", proverFlagUsage)
	startCmd.Flags().StringP(proverURLFlagName, "", "", proverURLFlagUsage)

	// log level
	startCmd.Flags().StringP(agentLogLevelFlagName, "", "", agentLogLevelFlagUsage)

	// tls cert file
	startCmd.Flags().StringP(agentTLSCertFileFlagName,
		agentTLSCertFileFlagShorthand, "", agentTLSCertFileFlagUsage)

	// tls key file
	startCmd.Flags().StringP(agentTLSKeyFileFlagName,
		agentTLSKeyFileFlagShorthand, "", agentTLSKeyFileFlagUsage)
}

func getUserSetVar(cmd *cobra.Command, flagName, envKey string, isOptional bool) (string, error) {
	if cmd.Flags().Changed(flagName) {
		value, err := cmd.Flags().GetString(flagName)
		if err != nil {
			return "", fmt.Errorf(flagName+" flag not found: %s", err)
		}

		return value, nil
	}

	value, isSet := os.LookupEnv(envKey)

	if isOptional || isSet {
		return value, nil
	}

	return "", errors.New("Neither " + flagName + " (command line flag) nor " + envKey +
		" (environment variable) have been set.")
}

func setLogLevel(logLevel string) error {
	if logLevel != "" {
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("failed to parse log level '%s' : %w", logLevel, err)
		}

		log.SetLevel("", level)

		logger.Infof("logger level set to %s", logLevel)
	}

	return nil
}

func validateAuthorizationBearerToken(w http.ResponseWriter, r *http.Request, token string) bool {
	actHdr := r.Header.Get("Authorization")
	expHdr := "Bearer " + token

	if subtle.ConstantTimeCompare([]byte(actHdr), []byte(expHdr)) != 1 {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("Unauthorised.\n")) // nolint:gosec,errcheck

		return false
	}

	return true
}

func authorizationMiddleware(token string) mux.MiddlewareFunc {
	middleware := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if validateAuthorizationBearerToken(w, r, token) {
				next.ServeHTTP(w, r)
			}
		})
	}

	return middleware
}

func startAgent(parameters *agentParameters) error {
	if parameters.host == "" {
		return errMissingHost
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a, err := createAgent(parameters, registry)
	if err != nil {
		return err
	}

	router := newRouter(a, registry, parameters.token)

	logger.Infof("Starting wallet agent rest on host [%s]", parameters.host)
	// start server on given port and serve using given handlers
	handler := cors.New(
		cors.Options{
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodHead},
			AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With", "Authorization"},
		},
	).Handler(router)

	err = parameters.server.ListenAndServe(parameters.host, handler, parameters.tlsCertFile, parameters.tlsKeyFile)
	if err != nil {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warnf("failed to close agent: %s", closeErr)
		}

		return fmt.Errorf("failed to start wallet agent rest on port [%s], cause:  %w", parameters.host, err)
	}

	return nil
}

func newRouter(a *agent.Agent, gatherer prometheus.Gatherer, token string) *mux.Router {
	router := mux.NewRouter()

	if token != "" {
		router.Use(authorizationMiddleware(token))
	}

	for _, handler := range controller.GetRESTHandlers(a) {
		router.HandleFunc(handler.Path(), handler.Handle()).Methods(handler.Method())
	}

	router.Handle(metricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	return router
}

func createAgent(parameters *agentParameters, registerer prometheus.Registerer) (*agent.Agent, error) {
	storePro, err := createStoreProvider(parameters)
	if err != nil {
		return nil, err
	}

	prover, err := createProver(parameters)
	if err != nil {
		return nil, fmt.Errorf("failed to start wallet agent rest on port [%s], failed to create prover : %w",
			parameters.host, err)
	}

	opts := []agent.Option{
		agent.WithStoreProvider(storePro),
		agent.WithProver(prover),
		agent.WithOutboundOptions(transport.WithOutboundTimeout(parameters.deliveryTimeout)),
		agent.WithPrometheusRegisterer(registerer),
	}

	if parameters.namespace != "" {
		opts = append(opts, agent.WithNamespace(parameters.namespace))
	}

	if parameters.didMethod != "" {
		opts = append(opts, agent.WithDIDMethod(parameters.didMethod))
	}

	if parameters.deliveryRetries >= 0 {
		opts = append(opts, agent.WithDeliveryRetries(parameters.deliveryRetries))
	}

	a, err := agent.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to start wallet agent rest on port [%s], failed to initialize agent :  %w",
			parameters.host, err)
	}

	return a, nil
}

func createProver(parameters *agentParameters) (proof.Prover, error) {
	switch parameters.prover {
	case "", proverGroth16Option:
		return groth16.New(), nil
	case proverRemoteOption:
		p, err := remote.New(parameters.proverURL)
		if err != nil {
			return nil, err
		}

		return p, nil
	default:
		return nil, fmt.Errorf("prover [%s] not supported", parameters.prover)
	}
}

func createStoreProvider(parameters *agentParameters) (storage.Provider, error) {
	provider, supported := supportedStorageProviders[parameters.dbParam.dbType]
	if !supported {
		return nil, fmt.Errorf("key database type not set to a valid type." +
			" run start --help to see the available options")
	}

	var store storage.Provider

	err := backoff.RetryNotify(
		func() error {
			var openErr error
			store, openErr = provider(parameters.dbParam.path)
			return openErr
		},
		backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Second), parameters.dbParam.timeout),
		func(retryErr error, t time.Duration) {
			logger.Warnf(
				"failed to connect to storage, will sleep for %s before trying again : %s\n",
				t, retryErr)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to storage at %s : %w", parameters.dbParam.path, err)
	}

	return store, nil
}
