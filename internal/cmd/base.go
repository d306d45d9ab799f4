package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/acervo/autorctl/internal/autor"
	"github.com/acervo/autorctl/internal/config"
	"github.com/acervo/autorctl/internal/k8s"
	"github.com/acervo/autorctl/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"k8s.io/cli-runtime/pkg/genericclioptions"
)

// localTarget names the single target used when no pod selection flag is set.
const localTarget = "local"

type PodResolver func(ctx context.Context, k8sClient k8s.Client, cmd *cobra.Command) ([]string, error)

var targetFlags = []string{"pod", "deployment", "selector"}

func AddCommands(rootCmd *cobra.Command) {
	configFlags := genericclioptions.NewConfigFlags(true)

	// Add k8s config flags and hide them
	configFlags.AddFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().VisitAll(func(flag *pflag.Flag) {
		flag.Hidden = true
	})

	// Global target selection
	rootCmd.PersistentFlags().StringArrayP("pod", "p", nil, "Select backend pod(s) instead of the local endpoint")
	rootCmd.PersistentFlags().StringArrayP("deployment", "d", nil, "Select backend deployment(s)")
	rootCmd.PersistentFlags().StringArrayP("selector", "l", nil, "Select backend pod(s) by label selector")

	// Client settings, also read from AUTORCTL_* variables
	rootCmd.PersistentFlags().String("base-url", autor.DefaultBaseURL, "Base URL of the local backend")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Request timeout, 0 waits indefinitely")

	settings := viper.New()
	config.Defaults(settings)
	if err := config.BindFlags(settings, rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}

	// Shell completion
	_ = rootCmd.RegisterFlagCompletionFunc("pod", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		k8sClient, err := k8s.NewK8sConnection(configFlags, nil)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		names, err := k8sClient.ListPods(cmd.Context(), k8sClient.Namespace(), "")
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	_ = rootCmd.RegisterFlagCompletionFunc("deployment", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		k8sClient, err := k8s.NewK8sConnection(configFlags, nil)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		names, err := k8sClient.ListDeployments(cmd.Context(), k8sClient.Namespace())
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	base := baseOperations{
		k8sCliFlags: configFlags,
		podResolver: FlagsPodResolver,
		settings:    settings,
	}

	rootCmd.AddCommand(NewAuthorCommand(base))
	rootCmd.AddCommand(NewRawCommand(base))
	rootCmd.AddCommand(NewVersionCommand())
}

// FlagsPodResolver resolves pods based on global --pod/--deployment/--selector flags
func FlagsPodResolver(ctx context.Context, k8sClient k8s.Client, cmd *cobra.Command) ([]string, error) {
	root := cmd.Root()
	pods, err := root.PersistentFlags().GetStringArray("pod")
	if err != nil {
		return nil, err
	}
	deployments, err := root.PersistentFlags().GetStringArray("deployment")
	if err != nil {
		return nil, err
	}
	selectors, err := root.PersistentFlags().GetStringArray("selector")
	if err != nil {
		return nil, err
	}

	// Expand deployments to pods
	for _, d := range deployments {
		names, err := k8sClient.GetDeploymentPods(ctx, k8sClient.Namespace(), d)
		if err != nil {
			cmd.SilenceUsage = true
			return nil, err
		}
		pods = append(pods, names...)
	}

	// Expand selectors to pods
	for _, s := range selectors {
		names, err := k8sClient.ListPods(ctx, k8sClient.Namespace(), s)
		if err != nil {
			cmd.SilenceUsage = true
			return nil, err
		}
		pods = append(pods, names...)
	}

	seen := map[string]struct{}{}
	var result []string
	for _, p := range pods {
		if p == "" {
			continue
		}
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			result = append(result, p)
		}
	}

	return result, nil
}

func hasTargetFlags(cmd *cobra.Command) bool {
	flags := cmd.Root().PersistentFlags()
	for _, name := range targetFlags {
		if flags.Changed(name) {
			return true
		}
	}
	return false
}

type baseOperations struct {
	k8sCliFlags *genericclioptions.ConfigFlags
	podResolver PodResolver
	settings    *viper.Viper

	log           *zap.SugaredLogger
	targets       []string
	clientFactory autor.ClientFactory
}

// complete loads the settings and picks the targets: the local endpoint by
// default, or the resolved pods when any selection flag is set.
func (o *baseOperations) complete(cmd *cobra.Command) error {
	cfg, err := config.Load(o.settings)
	if err != nil {
		return err
	}

	o.log = logger.New(cfg.LogLevel)
	opts := autor.Options{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout, Logger: o.log}

	if !hasTargetFlags(cmd) {
		o.log.Debugw("using local endpoint", "baseURL", cfg.BaseURL)
		o.targets = []string{localTarget}
		o.clientFactory = &localClientFactory{opts: opts}
		return nil
	}

	connection, err := k8s.NewK8sConnection(o.k8sCliFlags, o.log)
	if err != nil {
		cmd.SilenceUsage = true
		return err
	}

	pods, err := o.podResolver(cmd.Context(), connection, cmd)
	if err != nil {
		return err
	}
	o.log.Debugw("resolved backend pods", "namespace", connection.Namespace(), "pods", pods)

	o.targets = pods
	o.clientFactory = &podClientFactory{connection: connection, opts: opts}
	return nil
}

func (o *baseOperations) validateTargets() error {
	if len(o.targets) == 0 {
		return errors.New("no pods matched; check the --pod, --deployment and --selector flags")
	}
	return nil
}

func (o *baseOperations) newClient(ctx context.Context, target string) (autor.Client, error) {
	client, err := o.clientFactory.NewClient(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}
