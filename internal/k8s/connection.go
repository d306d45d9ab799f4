package k8s

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/runtime/serializer"
	"k8s.io/cli-runtime/pkg/genericclioptions"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/scheme"
	_ "k8s.io/client-go/plugin/pkg/client/auth"
	"k8s.io/client-go/rest"
)

const listLimit = 1000

type Connection struct {
	clientset  kubernetes.Interface
	restConfig *rest.Config
	restClient rest.Interface
	namespace  string
	log        *zap.SugaredLogger
}

var _ Client = (*Connection)(nil)
var _ TransportFactory = (*Connection)(nil)

func NewK8sConnection(options *genericclioptions.ConfigFlags, log *zap.SugaredLogger) (*Connection, error) {
	restConfig, err := options.ToRESTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to read kubeconfig: %w", err)
	}
	restConfig.APIPath = "/api"
	restConfig.GroupVersion = &schema.GroupVersion{Group: "", Version: "v1"}
	restConfig.NegotiatedSerializer = serializer.WithoutConversionCodecFactory{CodecFactory: scheme.Codecs}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}

	restClient, err := rest.RESTClientFor(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create REST client: %w", err)
	}

	namespace, _, err := options.ToRawKubeConfigLoader().Namespace()
	if err != nil {
		return nil, err
	}

	if log == nil {
		log = zap.NewNop().Sugar()
	}

	return &Connection{
		clientset:  clientset,
		restConfig: restConfig,
		restClient: restClient,
		namespace:  namespace,
		log:        log,
	}, nil
}

func (c *Connection) Clientset() kubernetes.Interface {
	return c.clientset
}

func (c *Connection) Namespace() string {
	return c.namespace
}

func (c *Connection) GetPod(ctx context.Context, namespace, name string) (*corev1.Pod, error) {
	return c.clientset.CoreV1().Pods(namespace).Get(ctx, name, metav1.GetOptions{})
}

func (c *Connection) ListPods(ctx context.Context, namespace, labelSelector string) ([]string, error) {
	list, err := c.clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{
		LabelSelector: labelSelector,
		Limit:         listLimit,
	})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(list.Items))
	for _, pod := range list.Items {
		names = append(names, pod.Name)
	}
	return names, nil
}

func (c *Connection) ListDeployments(ctx context.Context, namespace string) ([]string, error) {
	list, err := c.clientset.AppsV1().Deployments(namespace).List(ctx, metav1.ListOptions{Limit: listLimit})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(list.Items))
	for _, deployment := range list.Items {
		names = append(names, deployment.Name)
	}
	return names, nil
}

// GetDeploymentPods lists the pods matched by the deployment's selector.
func (c *Connection) GetDeploymentPods(ctx context.Context, namespace, deploymentName string) ([]string, error) {
	deployment, err := c.clientset.AppsV1().Deployments(namespace).Get(ctx, deploymentName, metav1.GetOptions{})
	if err != nil {
		return nil, err
	}

	selector, err := metav1.LabelSelectorAsSelector(deployment.Spec.Selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector on deployment %s: %w", deploymentName, err)
	}

	return c.ListPods(ctx, namespace, selector.String())
}
