// Package events defines the typed session event contract.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - session.*
//   - recording.*
//   - transcript.*
//   - translation.*
//   - playback.*
//   - interview.*
//
// Semantics used across the package:
//
//   - Changed: a piece of session state took a new value.
//   - Updated: mutable point-in-time snapshot that can change over time.
//   - Final: terminal immutable text for the current utterance.
//   - Started/Ended: lifecycle boundaries.
//
// session events
//
//   - StatusChanged (session.status_changed): ready, listening, translating
//     or speaking.
//   - DirectionChanged (session.direction_changed): slider side and the
//     derived translation direction.
//   - PromptChanged (session.prompt_changed): idle hint shown under the
//     slider.
//   - ConnectionChanged (session.connection_changed): server channel
//     connected or dropped.
//   - Notification (session.notification): user-facing error or notice.
//   - SliderMoved (session.slider_moved): thumb position while dragging and
//     after a snap.
//
// recording events
//
//   - RecordingStarted (recording.started): capture began for a direction.
//   - RecordingElapsed (recording.elapsed): time spent recording, ticking
//     while capture is active.
//   - RecordingStopped (recording.stopped): capture ended.
//
// transcript events
//
//   - TranscriptInterimUpdated (transcript.interim_updated): mutable interim
//     transcript snapshot.
//   - TranscriptFinal (transcript.final): terminal transcript for the
//     utterance.
//
// translation events
//
//   - TranslationRequested (translation.requested): text sent for
//     translation.
//   - TranslationReceived (translation.received): translated text arrived.
//   - AnswerCaptured (translation.answer_captured): an interview answer was
//     stored instead of being played.
//
// playback events
//
//   - PlaybackStarted (playback.started): a provider started speaking.
//   - PlaybackEnded (playback.ended): playback finished or was abandoned.
//
// interview events
//
//   - InterviewStarted (interview.started)
//   - InterviewQuestionAsked (interview.question_asked)
//   - InterviewCompleted (interview.completed): includes the rendered
//     summary.
package events
