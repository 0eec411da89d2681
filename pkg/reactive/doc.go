// Package reactive holds the small amount of glue rxplay adds on top of rxgo.
//
// Sub-packages:
//   - operators: composable Operator values and the operators rxgo lacks
//     (SwitchMap, Delay, notifier-driven TakeUntil, Throttle)
//   - subject: hot multicast sources (Subject, BehaviorSubject, ReplaySubject)
//     and ShareReplay
package reactive
