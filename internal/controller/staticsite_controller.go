/*
Copyright 2025 Edgesite Labs.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package controller

import (
	"context"
	"errors"
	"os"
	"time"

	sitesv1alpha1 "github.com/edgesite/static-site-controller/api/v1alpha1"
	"github.com/edgesite/static-site-controller/internal/aws"
	"gopkg.in/yaml.v2"
	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

const defaultRequeueSeconds = 30

// StaticSiteReconciler reconciles a StaticSite object
type StaticSiteReconciler struct {
	client.Client
	Scheme      *runtime.Scheme
	config      Config
	aws         aws.AWSClient
	events      *EventsClient
	requeue     time.Duration
	reconcilers []Reconciler
}

// Reconciler is one step of the resource graph. Steps run in dependency
// order on reconcile and in reverse order on teardown.
type Reconciler interface {
	Reconcile(ctx context.Context, site *sitesv1alpha1.StaticSite) error
	Teardown(ctx context.Context, site *sitesv1alpha1.StaticSite) error
}

func NewStaticSiteReconciler(client client.Client, scheme *runtime.Scheme,
	config Config) *StaticSiteReconciler {

	awsClient := aws.AWSClient{}
	if config.AWS.Region != "" {
		log.Log.Info("AWS region set. AWS support enabled.", "region", config.AWS.Region)
		if err := awsClient.Initialise(config.AWS); err != nil {
			log.Log.Error(err, "Problem initialising AWS client")
		}
	} else {
		log.Log.Info("No AWS region set. AWS support disabled.")
	}

	var events *EventsClient
	if config.Pulsar.URL != "" {
		var err error
		if events, err = NewEventsClient(config.Pulsar.URL,
			config.Pulsar.Topic); err == nil {
			go events.Listen()
		} else {
			log.Log.Error(err, "Problem connecting to Pulsar, events disabled")
			events = nil
		}
	}

	requeue := time.Duration(config.RequeueSeconds) * time.Second
	if requeue == 0 {
		requeue = defaultRequeueSeconds * time.Second
	}

	r := &StaticSiteReconciler{
		Client:  client,
		Scheme:  scheme,
		config:  config,
		aws:     awsClient,
		events:  events,
		requeue: requeue,
		reconcilers: []Reconciler{
			&FinalizerReconciler{
				Client:    client,
				Finalizer: "sites.edgesite.io/staticsite-finalizer",
			},
		},
	}
	if awsClient.Enabled() {
		r.reconcilers = append(r.reconcilers,
			&aws.HostedZoneReconciler{Client: client, AWS: awsClient},
			&aws.BucketReconciler{Client: client, AWS: awsClient},
			&aws.CertificateReconciler{Client: client, AWS: awsClient},
			&aws.DistributionReconciler{Client: client, AWS: awsClient},
			&aws.BucketPolicyReconciler{Client: client, AWS: awsClient},
			&aws.RecordsReconciler{Client: client, AWS: awsClient},
			&aws.DeployRoleReconciler{Client: client, AWS: awsClient},
		)
	}
	r.reconcilers = append(r.reconcilers,
		&OutputsReconciler{Client: Client{Client: client}})
	return r
}

func reverse[T any](s []T) []T {
	t := make([]T, len(s))
	for i := range s {
		t[len(s)-i-1] = s[i]
	}
	return t
}

//+kubebuilder:rbac:groups=sites.edgesite.io,resources=staticsites,verbs=get;list;watch;create;update;patch;delete
//+kubebuilder:rbac:groups=sites.edgesite.io,resources=staticsites/status,verbs=get;update;patch
//+kubebuilder:rbac:groups=sites.edgesite.io,resources=staticsites/finalizers,verbs=update
//+kubebuilder:rbac:groups=core,resources=configmaps,verbs=get;list;watch;create;update;patch;delete

// Reconcile applies the declared site infrastructure step by step. A step
// that reports aws.ErrWaiting parks the site until the next requeue instead
// of failing the pass, which is how slow cloud operations (certificate
// validation, distribution propagation) are absorbed.
func (r *StaticSiteReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	log := log.FromContext(ctx)

	site := &sitesv1alpha1.StaticSite{}
	if err := r.Get(ctx, req.NamespacedName, site); err != nil {
		return ctrl.Result{}, client.IgnoreNotFound(err)
	}

	if !site.ObjectMeta.DeletionTimestamp.IsZero() {
		return r.teardown(ctx, site)
	}

	if site.Status.Phase == "" {
		site.Status.Phase = sitesv1alpha1.PhasePending
	}

	for _, reconciler := range r.reconcilers {
		if err := reconciler.Reconcile(ctx, site); err != nil {
			if errors.Is(err, aws.ErrWaiting) {
				log.Info("Waiting on cloud resource", "reason", err.Error())
				site.Status.Phase = sitesv1alpha1.PhaseProvisioning
				return ctrl.Result{RequeueAfter: r.requeue}, r.updateStatus(ctx, site)
			}
			log.Error(err, "Reconciler failed", "reconciler", reconciler)
			site.Status.Phase = sitesv1alpha1.PhaseProvisioning
			if statusErr := r.updateStatus(ctx, site); statusErr != nil {
				log.Error(statusErr, "Failed to update status")
			}
			return ctrl.Result{}, err
		}
	}

	result := ctrl.Result{}
	if site.Status.AWS.Distribution.State == "Deployed" {
		if site.Status.Phase != sitesv1alpha1.PhaseReady {
			site.Status.Phase = sitesv1alpha1.PhaseReady
			r.notify("provisioned", site)
		}
	} else {
		// Distribution still propagating; check again later.
		site.Status.Phase = sitesv1alpha1.PhaseProvisioning
		result.RequeueAfter = r.requeue
	}
	return result, r.updateStatus(ctx, site)
}

func (r *StaticSiteReconciler) teardown(ctx context.Context,
	site *sitesv1alpha1.StaticSite) (ctrl.Result, error) {

	log := log.FromContext(ctx)

	site.Status.Phase = sitesv1alpha1.PhaseDeleting
	for _, reconciler := range reverse(r.reconcilers) {
		if err := reconciler.Teardown(ctx, site); err != nil {
			if errors.Is(err, aws.ErrWaiting) {
				log.Info("Waiting on cloud resource teardown", "reason", err.Error())
				return ctrl.Result{RequeueAfter: r.requeue}, r.updateStatus(ctx, site)
			}
			log.Error(err, "Teardown failed", "reconciler", reconciler)
			return ctrl.Result{}, err
		}
	}
	r.notify("deleted", site)
	return ctrl.Result{}, nil
}

func (r *StaticSiteReconciler) updateStatus(ctx context.Context,
	site *sitesv1alpha1.StaticSite) error {
	return r.Status().Update(ctx, site)
}

func (r *StaticSiteReconciler) notify(event string, site *sitesv1alpha1.StaticSite) {
	if r.events == nil {
		return
	}
	r.events.Notify(Event{
		Event:  event,
		Name:   site.Name,
		Spec:   site.Spec,
		Status: site.Status,
	})
}

// SetupWithManager sets up the controller with the Manager.
func (r *StaticSiteReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&sitesv1alpha1.StaticSite{}).
		Complete(r)
}

type Config struct {
	AWS    aws.AWSConfig `yaml:"aws"`
	Pulsar struct {
		URL   string `yaml:"url"`
		Topic string `yaml:"topic"`
	} `yaml:"pulsar"`
	// Interval between retries while waiting on slow cloud operations
	RequeueSeconds int `yaml:"requeueSeconds"`
}

func (c *Config) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Log.Error(err, "Problem reading config file")
		return err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		log.Log.Error(err, "Problem unmarshalling config file")
		return err
	}

	return nil
}
