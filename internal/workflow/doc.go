// Package workflow drives the molindex client session: the cookie check,
// session resolution, quota gating, file intake, analysis submission and
// result rendering.
//
// A Controller owns all mutable state. Every operation takes the controller
// lock for short mutation sections only; network calls, the k prompt and
// title typesetting run unlocked. The controller never draws anything
// itself: it maintains a Display model and hands snapshots to a View.
//
// Typical use:
//
//	ctrl := workflow.New(workflow.Options{Backend: c, View: v, Prompter: p})
//	if err := ctrl.Start(ctx); err != nil {
//	    return err
//	}
//	ctrl.UpdateFiles(files)
//	_ = ctrl.SelectMode(analysis.ModeDegree)
//	err := ctrl.RunAnalysis(ctx)
package workflow
